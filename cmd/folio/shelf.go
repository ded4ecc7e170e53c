package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/folio/internal/discovery"
	"github.com/pders01/folio/internal/shelf"
)

func (c *cli) newShelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Manage the reading shelf",
	}
	cmd.AddCommand(
		c.newShelfAddCmd(),
		c.newShelfListCmd(),
		c.newShelfRemoveCmd(),
		c.newShelfFindCmd(),
	)
	return cmd
}

// withShelf runs fn against an open shelf and closes it afterwards.
func (c *cli) withShelf(fn func(*shelf.Store) error) error {
	if err := c.setup(); err != nil {
		return err
	}
	store, err := c.openShelf()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *cli) newShelfAddCmd() *cobra.Command {
	var book shelf.Book

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Put a book on the shelf",
		Example: `  folio shelf add "Les Misérables" --author "Victor Hugo" --pages 1900`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book.Title = strings.Join(args, " ")
			return c.withShelf(func(store *shelf.Store) error {
				added, err := store.Add(book)
				if err != nil {
					return fmt.Errorf("adding to shelf: %w", err)
				}
				b := book.Normalize()
				if !added {
					fmt.Fprintf(cmd.OutOrStdout(), "Already on your shelf: %s by %s\n", b.Title, b.Author)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added to shelf: %s by %s\n", b.Title, b.Author)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&book.Author, "author", "", "Author, as shown in search results")
	f.StringVar(&book.Publisher, "publisher", "", "Publisher")
	f.StringVar(&book.PublishedDate, "published", "", "Publication date, e.g. 1862 or 1862-04-03")
	f.IntVar(&book.PageCount, "pages", 0, "Page count")
	return cmd
}

func (c *cli) newShelfListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the books on the shelf",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withShelf(func(store *shelf.Store) error {
				books, err := store.List()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(books) == 0 {
					fmt.Fprintln(out, "Your shelf is empty.")
					return nil
				}
				printBooks(out, books)
				fmt.Fprintf(out, "\n%d book(s)\n", len(books))
				return nil
			})
		},
	}
}

func (c *cli) newShelfRemoveCmd() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:     "remove <title>",
		Aliases: []string{"rm"},
		Short:   "Take a book off the shelf",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := shelf.Book{Title: strings.Join(args, " "), Author: author}.Normalize()
			return c.withShelf(func(store *shelf.Store) error {
				if err := store.Remove(b.Title, b.Author); err != nil {
					if errors.Is(err, shelf.ErrNotFound) {
						return fmt.Errorf("%s by %s is not on your shelf", b.Title, b.Author)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed from shelf: %s by %s\n", b.Title, b.Author)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Author the book was shelved with")
	return cmd
}

func (c *cli) newShelfFindCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find <query...>",
		Short: "Search the shelf",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return c.withShelf(func(store *shelf.Store) error {
				books, err := store.Find(query, limit)
				if err != nil {
					return fmt.Errorf("searching shelf: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(books) == 0 {
					fmt.Fprintf(out, "Nothing on your shelf matches '%s'.\n", query)
					return nil
				}
				printBooks(out, books)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of matches")
	return cmd
}

func printBooks(w io.Writer, books []shelf.Book) {
	for _, b := range books {
		line := fmt.Sprintf("%s by %s", b.Title, b.Author)
		var facts []string
		if year, ok := discovery.PublicationYear(b.PublishedDate); ok {
			facts = append(facts, fmt.Sprintf("%d", year))
		}
		if b.PageCount > 0 {
			facts = append(facts, fmt.Sprintf("%d p.", b.PageCount))
		}
		if len(facts) > 0 {
			line += " (" + strings.Join(facts, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}
