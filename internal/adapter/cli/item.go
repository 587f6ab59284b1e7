package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/mkowalczyk/goldvault/internal/config"
	"github.com/mkowalczyk/goldvault/internal/usecase/ledger"
)

type addItemCmd struct {
	cfg      *config.Config
	category string
	typ      string
	weight   string
	purity   string
	unit     string
	notes    string
}

func (*addItemCmd) Name() string     { return "add-item" }
func (*addItemCmd) Synopsis() string { return "define a new inventory item" }
func (*addItemCmd) Usage() string {
	return `vault add-item -category <c> -type <t> -weight <grams> -purity <pct> [-unit <u>] [-notes <n>]

  Defines a new (category, type, purity) item with zero on-hand quantity.
`
}

func (c *addItemCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Item category, e.g. bar, coin, scrap.")
	f.StringVar(&c.typ, "type", "", "Item type label, e.g. \"Bar 10g\".")
	f.StringVar(&c.weight, "weight", "", "Unit weight in grams.")
	f.StringVar(&c.purity, "purity", "", "Purity in percent, up to 100.")
	f.StringVar(&c.unit, "unit", "pcs", "Unit of measure.")
	f.StringVar(&c.notes, "notes", "", "Free-text notes.")
}

func (c *addItemCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	weight, err := parseDecimal("weight", c.weight)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	purity, err := parseDecimal("purity", c.purity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	return withServices(c.cfg, func(svc *services) error {
		id, err := svc.engine.CreateItem(ctx, ledger.CreateItemInput{
			Category:   c.category,
			TypeLabel:  c.typ,
			UnitWeight: weight,
			Purity:     purity,
			Unit:       c.unit,
			Notes:      c.notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created item %d\n", id)
		return nil
	})
}

type itemsCmd struct {
	cfg *config.Config
}

func (*itemsCmd) Name() string     { return "items" }
func (*itemsCmd) Synopsis() string { return "list item definitions in picker order" }
func (*itemsCmd) Usage() string {
	return `vault items

  Lists item ids with category, type, purity and unit.
`
}
func (*itemsCmd) SetFlags(*flag.FlagSet) {}

func (c *itemsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withServices(c.cfg, func(svc *services) error {
		choices, err := svc.queries.ListItemChoices(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tTYPE\tPURITY\tUNIT")
		for _, choice := range choices {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				choice.ID, choice.Category, choice.TypeLabel, choice.Purity, choice.Unit)
		}
		return w.Flush()
	})
}

type categoriesCmd struct {
	cfg *config.Config
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list known item categories" }
func (*categoriesCmd) Usage() string {
	return `vault categories

  Lists the distinct item categories, sorted.
`
}
func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (c *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withServices(c.cfg, func(svc *services) error {
		categories, err := svc.queries.ListCategories(ctx)
		if err != nil {
			return err
		}
		for _, category := range categories {
			fmt.Println(category)
		}
		return nil
	})
}

type inventoryCmd struct {
	cfg  *config.Config
	sort string
}

func (*inventoryCmd) Name() string     { return "inventory" }
func (*inventoryCmd) Synopsis() string { return "show current on-hand inventory" }
func (*inventoryCmd) Usage() string {
	return `vault inventory [-sort category|type|purity|quantity|weight]

  Shows every item with its on-hand quantity and total weight.
`
}

func (c *inventoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "category", "Sort key: category, type, purity, quantity or weight.")
}

func (c *inventoryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withServices(c.cfg, func(svc *services) error {
		rows, err := svc.queries.ListInventory(ctx, c.sort)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tTYPE\tUNIT WEIGHT\tPURITY\tQUANTITY\tUNIT\tTOTAL WEIGHT\tNOTES")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Category, row.TypeLabel, row.UnitWeight, row.Purity,
				row.QuantityOnHand, row.Unit, row.TotalWeight, row.Notes)
		}
		return w.Flush()
	})
}
