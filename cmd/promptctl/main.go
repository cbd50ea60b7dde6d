package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptvault/promptvault/internal/model"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "promptctl",
		Short: "CLI client for the prompt-service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Prompt service base URL")

	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(favoriteCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List or search prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			category, _ := cmd.Flags().GetString("category")
			tags, _ := cmd.Flags().GetString("tags")
			author, _ := cmd.Flags().GetString("author")
			limit, _ := cmd.Flags().GetInt("limit")

			criteria := model.SearchCriteria{
				Query:    query,
				Category: model.Category(category),
				Author:   author,
				Limit:    limit,
			}
			if tags != "" {
				criteria.Tags = strings.Split(tags, ",")
			}
			prompts, err := newPromptClient(apiFlag).List(criteria)
			if err != nil {
				return err
			}
			return printJSON(prompts)
		},
	}
	cmd.Flags().StringP("query", "q", "", "Free-text query")
	cmd.Flags().StringP("category", "c", "", "Category filter (work, personal, shared)")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags, any match")
	cmd.Flags().String("author", "", "Author substring filter")
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of results")
	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPromptClient(apiFlag).Get(args[0])
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prompt from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var req model.CreatePromptRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			p, err := newPromptClient(apiFlag).Create(req)
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	cmd.Flags().StringP("file", "f", "", "JSON file with the prompt definition")
	return cmd
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a prompt with variable values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, _ := cmd.Flags().GetStringArray("set")
			values := make(map[string]model.Value, len(pairs))
			for _, pair := range pairs {
				name, val, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, want name=value", pair)
				}
				values[name] = model.StringValue(val)
			}
			result, err := newPromptClient(apiFlag).Render(args[0], values)
			if err != nil {
				return err
			}
			for _, e := range result.Errors {
				fmt.Fprintln(os.Stderr, "warning:", e)
			}
			fmt.Println(result.Rendered)
			return nil
		},
	}
	cmd.Flags().StringArrayP("set", "s", nil, "Variable value as name=value (repeatable)")
	return cmd
}

func favoriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark or unmark a prompt as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, _ := cmd.Flags().GetBool("off")
			return newPromptClient(apiFlag).SetFavorite(args[0], !off)
		},
	}
	cmd.Flags().Bool("off", false, "Remove the favorite flag instead of setting it")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newPromptClient(apiFlag).Delete(args[0])
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-category prompt counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := newPromptClient(apiFlag).CategoryStats()
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
