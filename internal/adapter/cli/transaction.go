package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/mkowalczyk/goldvault/internal/config"
	"github.com/mkowalczyk/goldvault/internal/domain"
	"github.com/mkowalczyk/goldvault/internal/usecase/ledger"
)

// transactionFlags are the parameters shared by record and edit.
type transactionFlags struct {
	item  int64
	kind  string
	qty   string
	price string
	date  string
	desc  string
}

func (tf *transactionFlags) register(f *flag.FlagSet) {
	f.Int64Var(&tf.item, "item", 0, "Item id the transaction settles against.")
	f.StringVar(&tf.kind, "kind", "", "Transaction kind: buy or sell.")
	f.StringVar(&tf.qty, "qty", "", "Quantity, in the item's unit of measure.")
	f.StringVar(&tf.price, "price", "", "Price per unit of quantity.")
	f.StringVar(&tf.date, "date", "", "Date (YYYY-MM-DD) or timestamp (YYYY-MM-DD HH:MM:SS).")
	f.StringVar(&tf.desc, "desc", "", "Free-text description.")
}

func (tf *transactionFlags) input() (ledger.TransactionInput, error) {
	kind, err := parseKind(tf.kind)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	qty, err := parseDecimal("qty", tf.qty)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	price, err := parseDecimal("price", tf.price)
	if err != nil {
		return ledger.TransactionInput{}, err
	}

	return ledger.TransactionInput{
		ItemID:      tf.item,
		Kind:        kind,
		Quantity:    qty,
		UnitPrice:   price,
		Date:        tf.date,
		Description: tf.desc,
	}, nil
}

type recordCmd struct {
	cfg *config.Config
	transactionFlags
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record a buy or sell transaction" }
func (*recordCmd) Usage() string {
	return `vault record -item <id> -kind buy|sell -qty <q> -price <p> -date <d> [-desc <text>]

  Records a transaction and adjusts the item's on-hand quantity.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *recordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input, err := c.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	return withServices(c.cfg, func(svc *services) error {
		id, err := svc.engine.RecordTransaction(ctx, input)
		if err != nil {
			return err
		}
		fmt.Printf("recorded transaction %d\n", id)
		return nil
	})
}

type editCmd struct {
	cfg *config.Config
	id  int64
	transactionFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "replace a transaction's parameters" }
func (*editCmd) Usage() string {
	return `vault edit -id <tx> -item <id> -kind buy|sell -qty <q> -price <p> -date <d> [-desc <text>]

  Replaces the transaction in full; inventory is restored as if the old
  transaction had never applied, then the new parameters are applied.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Transaction id to edit.")
	c.register(f)
}

func (c *editCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input, err := c.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	return withServices(c.cfg, func(svc *services) error {
		if err := svc.engine.EditTransaction(ctx, c.id, input); err != nil {
			return err
		}
		fmt.Printf("updated transaction %d\n", c.id)
		return nil
	})
}

type deleteCmd struct {
	cfg *config.Config
	id  int64
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a transaction, reversing its effect" }
func (*deleteCmd) Usage() string {
	return `vault delete -id <tx>

  Removes the transaction and restores the item's on-hand quantity.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Transaction id to delete.")
}

func (c *deleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withServices(c.cfg, func(svc *services) error {
		if err := svc.engine.DeleteTransaction(ctx, c.id); err != nil {
			return err
		}
		fmt.Printf("deleted transaction %d\n", c.id)
		return nil
	})
}

type historyCmd struct {
	cfg      *config.Config
	sort     string
	from     string
	to       string
	category string
	kind     string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list ledger transactions" }
func (*historyCmd) Usage() string {
	return `vault history [-sort date|type|value|kind] [-from <d>] [-to <d>] [-category <c>] [-kind buy|sell]

  Lists transactions joined with their item, filtered and ordered.
  Date bounds are inclusive on the calendar date.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "date", "Sort key: date, type, value or kind.")
	f.StringVar(&c.from, "from", "", "Earliest date, YYYY-MM-DD.")
	f.StringVar(&c.to, "to", "", "Latest date, YYYY-MM-DD.")
	f.StringVar(&c.category, "category", "", "Only this item category.")
	f.StringVar(&c.kind, "kind", "", "Only buys or only sells.")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := parseKind(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	filter := domain.LedgerFilter{
		DateFrom: c.from,
		DateTo:   c.to,
		Category: c.category,
		Kind:     kind,
	}

	return withServices(c.cfg, func(svc *services) error {
		entries, err := svc.queries.ListTransactions(ctx, c.sort, filter)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tTYPE\tPURITY\tKIND\tQTY\tUNIT\tWEIGHT\tPRICE\tPRICE/G\tVALUE\tDESCRIPTION")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Date.Format("2006-01-02 15:04:05"), e.Category, e.TypeLabel,
				e.Purity, e.Kind, e.Quantity, e.Unit, e.TotalWeight,
				e.UnitPrice, e.PricePerGram, e.TotalValue(), e.Description)
		}
		return w.Flush()
	})
}

type showCmd struct {
	cfg *config.Config
	id  int64
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show one transaction" }
func (*showCmd) Usage() string {
	return `vault show -id <tx>

  Shows a transaction with its item's category, type and purity.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Transaction id to show.")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withServices(c.cfg, func(svc *services) error {
		e, err := svc.queries.GetTransaction(ctx, c.id)
		if err != nil {
			return err
		}

		fmt.Printf("transaction %d\n", e.ID)
		fmt.Printf("  date:        %s\n", e.Date.Format("2006-01-02 15:04:05"))
		fmt.Printf("  item:        %d (%s / %s / %s)\n", e.ItemID, e.Category, e.TypeLabel, e.Purity)
		fmt.Printf("  kind:        %s\n", e.Kind)
		fmt.Printf("  quantity:    %s %s\n", e.Quantity, e.Unit)
		fmt.Printf("  weight:      %s g\n", e.TotalWeight)
		fmt.Printf("  unit price:  %s\n", e.UnitPrice)
		fmt.Printf("  price/gram:  %s\n", e.PricePerGram)
		fmt.Printf("  value:       %s\n", e.TotalValue())
		if e.Description != "" {
			fmt.Printf("  description: %s\n", e.Description)
		}
		return nil
	})
}
