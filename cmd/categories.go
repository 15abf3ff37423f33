package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category catalog with its ids",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	if len(cat.Categories) == 0 {
		fmt.Println("No category catalog loaded.")
		return nil
	}

	for _, c := range cat.Categories {
		fmt.Printf("%4s  %s\n", c.ID, c.Name)
		for _, sub := range c.Subcategories {
			fmt.Printf("      %4s  %s\n", sub.ID, sub.Name)
		}
	}
	return nil
}
