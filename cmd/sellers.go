package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sellersCmd = &cobra.Command{
	Use:   "sellers [city]",
	Short: "List known sellers, or the cities that have them",
	Long: `Without an argument, lists every city in the seller catalog with its
seller count. With a city, lists that city's sellers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSellers,
}

func init() {
	rootCmd.AddCommand(sellersCmd)
}

func runSellers(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		cities := cat.Cities()
		fmt.Printf("%d cities with known sellers:\n\n", len(cities))
		for _, city := range cities {
			fmt.Printf(" %-24s %d sellers\n", city, len(cat.SellersInCity(city)))
		}
		return nil
	}

	city := args[0]
	sellers := cat.SellersInCity(city)
	if len(sellers) == 0 {
		fmt.Printf("No sellers found in %s.\n", city)
		return nil
	}
	fmt.Printf("%d sellers in %s:\n\n", len(sellers), city)
	for i, s := range sellers {
		fmt.Printf(" %3d. %s\n      %s\n", i+1, s.Name, s.SellerURL)
	}
	return nil
}
