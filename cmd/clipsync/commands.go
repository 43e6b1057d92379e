package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkraev/clipsync/internal/config"
	"github.com/mkraev/clipsync/internal/core"
	"github.com/mkraev/clipsync/internal/importer"
)

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an item to the library",
	Long: `Add an item to the library.

Examples:
  clipsync add --text "SELECT * FROM users" --category snippets --tags sql
  clipsync add --file ./notes.md --category notes
  clipsync add --file ./contract.pdf --title "Lease contract"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		tagsStr, _ := cmd.Flags().GetString("tags")

		if text == "" && file == "" {
			return fmt.Errorf("one of --text or --file is required")
		}

		content := text
		if file != "" {
			fileTitle, fileContent, err := importer.FromFile(file)
			if err != nil {
				return fmt.Errorf("importing file: %w", err)
			}
			content = fileContent
			if title == "" {
				title = fileTitle
			}
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"category": category,
			"content":  content,
		}
		if title != "" {
			req["title"] = title
		}

		resp, err := client.post(cmd.Context(), "/items", req)
		if err != nil {
			return err
		}

		var item core.Item
		if err := decodeJSON(resp, &item); err != nil {
			return err
		}

		for _, tag := range splitFlags(tagsStr) {
			tagResp, err := client.post(cmd.Context(), "/items/"+item.ID+"/tags", map[string]string{"tag": tag})
			if err != nil {
				return err
			}
			if err := drainOK(tagResp); err != nil {
				return err
			}
		}

		printSuccess("Added item %s", item.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().String("text", "", "text content to add")
	addCmd.Flags().String("file", "", "file to import (PDF or plain text)")
	addCmd.Flags().String("title", "", "title for the item")
	addCmd.Flags().String("category", "clipboard", "category: clipboard, notes, snippets, or prompts")
	addCmd.Flags().String("tags", "", "comma-separated tags")
}

func splitFlags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- list ---

var listCmd = &cobra.Command{
	Use:     "list [query...]",
	Aliases: []string{"search"},
	Short:   "List items, pinned first",
	RunE: func(cmd *cobra.Command, args []string) error {
		facet, _ := cmd.Flags().GetString("facet")
		limit, _ := cmd.Flags().GetInt("limit")
		q := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/items?facet=%s&q=%s", url.QueryEscape(facet), url.QueryEscape(q))
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var items []core.Item
		if err := decodeJSON(resp, &items); err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No items found.")
			return nil
		}
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		for _, it := range items {
			marks := ""
			if it.Pinned {
				marks += colorize(colorYellow, " pinned")
			}
			if it.Starred {
				marks += colorize(colorYellow, " starred")
			}
			tags := ""
			if len(it.Tags) > 0 {
				tags = "  [" + strings.Join(it.Tags, ", ") + "]"
			}
			fmt.Printf("%s  %-9s  %s%s%s\n",
				colorize(colorCyan, it.ID[:8]),
				it.Category,
				it.Title,
				tags,
				marks,
			)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().String("facet", "all", "facet: all, starred, untagged, recycle, a category, or tag:<name>")
	listCmd.Flags().Int("limit", 20, "maximum number of items to show")
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single item as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/items/"+args[0])
		if err != nil {
			return err
		}

		var item any
		if err := decodeJSON(resp, &item); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	},
}

// --- pin / star ---

var pinCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin an item",
		Args:  cobra.ExactArgs(1),
		RunE:  setFlagRun("pinned"),
	}
	cmd.Flags().Bool("off", false, "unpin instead")
	return cmd
}()

var starCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "star <id>",
		Short: "Star or unstar an item",
		Args:  cobra.ExactArgs(1),
		RunE:  setFlagRun("starred"),
	}
	cmd.Flags().Bool("off", false, "unstar instead")
	return cmd
}()

func setFlagRun(flag string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		off, _ := cmd.Flags().GetBool("off")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		body := map[string]any{"flag": flag, "value": !off}
		resp, err := client.put(cmd.Context(), "/items/"+args[0]+"/flags", body)
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		if off {
			printSuccess("Item %s: %s cleared", args[0], flag)
		} else {
			printSuccess("Item %s: %s", args[0], flag)
		}
		return nil
	}
}

// --- tag ---

var tagCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <id> <tag>...",
		Short: "Add or remove tags on an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remove, _ := cmd.Flags().GetBool("remove")
			id, tags := args[0], args[1:]

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			for _, tag := range tags {
				if remove {
					r, err := client.delete(cmd.Context(), "/items/"+id+"/tags/"+url.PathEscape(tag))
					if err != nil {
						return err
					}
					if err := drainOK(r); err != nil {
						return err
					}
				} else {
					r, err := client.post(cmd.Context(), "/items/"+id+"/tags", map[string]string{"tag": tag})
					if err != nil {
						return err
					}
					if err := drainOK(r); err != nil {
						return err
					}
				}
			}

			if remove {
				printSuccess("Removed %d tag(s) from %s", len(tags), id)
			} else {
				printSuccess("Tagged %s with %s", id, strings.Join(tags, ", "))
			}
			return nil
		},
	}
	cmd.Flags().Bool("remove", false, "remove the tags instead of adding them")
	return cmd
}()

// --- delete / restore / purge ---

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Move an item to the recycle bin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/items/"+args[0])
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		printSuccess("Item %s moved to recycle bin", args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore an item from the recycle bin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/items/"+args[0]+"/restore", nil)
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		printSuccess("Item %s restored", args[0])
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently delete a recycled item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("Purging is permanent. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/items/"+args[0]+"/purge", nil)
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		printSuccess("Item %s purged", args[0])
		return nil
	},
}

func init() {
	purgeCmd.Flags().Bool("confirm", false, "confirm permanent deletion")
}

// --- workflow ---

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Manage automation workflows",
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/workflows")
		if err != nil {
			return err
		}

		var workflows []core.Workflow
		if err := decodeJSON(resp, &workflows); err != nil {
			return err
		}

		for _, w := range workflows {
			state := colorize(colorGreen, "enabled")
			if !w.Enabled {
				state = colorize(colorYellow, "disabled")
			}
			command := ""
			if w.Command != "" {
				command = "  " + colorize(colorBold, w.Command)
			}
			fmt.Printf("%s  %-8s  %s%s\n", colorize(colorCyan, w.ID[:8]), state, w.Name, command)
		}
		return nil
	},
}

var workflowEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  setWorkflowEnabledRun(true),
}

var workflowDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  setWorkflowEnabledRun(false),
}

func setWorkflowEnabledRun(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.put(cmd.Context(), "/workflows/"+args[0]+"/enabled", map[string]bool{"enabled": enabled})
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		if enabled {
			printSuccess("Workflow %s enabled", args[0])
		} else {
			printSuccess("Workflow %s disabled", args[0])
		}
		return nil
	}
}

var workflowRunCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Run a workflow manually",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, _ := cmd.Flags().GetString("item")

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			resp, err := client.post(cmd.Context(), "/workflows/"+args[0]+"/run", map[string]string{"item_id": itemID})
			if err != nil {
				return err
			}

			var result struct {
				Effects []core.EffectCommand `json:"effects"`
				Failures []struct {
					WorkflowName string `json:"workflow_name"`
					Reason       string `json:"reason"`
				} `json:"failures"`
			}
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}

			for _, eff := range result.Effects {
				printStep("effect: %s", eff.Kind)
			}
			for _, f := range result.Failures {
				printError("%s failed: %s", f.WorkflowName, f.Reason)
			}
			if len(result.Failures) == 0 {
				printSuccess("Workflow completed with %d effect(s)", len(result.Effects))
			}
			return nil
		},
	}
	cmd.Flags().String("item", "", "item id the workflow operates on")
	return cmd
}()

var workflowFireCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fire <trigger>",
		Short: "Fire a trigger across all enabled workflows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, _ := cmd.Flags().GetString("item")
			app, _ := cmd.Flags().GetString("app")

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			resp, err := client.post(cmd.Context(), "/fire", map[string]string{
				"trigger":     args[0],
				"item_id":     itemID,
				"application": app,
			})
			if err != nil {
				return err
			}

			var result struct {
				Effects  []core.EffectCommand `json:"effects"`
				Failures []struct {
					WorkflowName  string `json:"workflow_name"`
					ActivityIndex int    `json:"activity_index"`
					Reason        string `json:"reason"`
				} `json:"failures"`
			}
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}

			for _, eff := range result.Effects {
				printStep("effect: %s", eff.Kind)
			}
			for _, f := range result.Failures {
				printError("%s failed at activity %d: %s", f.WorkflowName, f.ActivityIndex, f.Reason)
			}
			printSuccess("Fired %s: %d effect(s), %d failure(s)", args[0], len(result.Effects), len(result.Failures))
			return nil
		},
	}
	cmd.Flags().String("item", "", "item id the trigger relates to")
	cmd.Flags().String("app", "", "active application name for scoped workflows")
	return cmd
}()

var workflowDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/workflows/"+args[0])
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		printSuccess("Workflow %s deleted", args[0])
		return nil
	},
}

func init() {
	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(workflowEnableCmd)
	workflowCmd.AddCommand(workflowDisableCmd)
	workflowCmd.AddCommand(workflowRunCmd)
	workflowCmd.AddCommand(workflowFireCmd)
	workflowCmd.AddCommand(workflowDeleteCmd)
}

// --- ask ---

var askCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <input>",
		Short: "Send input to the assistant; /commands run the matching workflow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, _ := cmd.Flags().GetString("item")
			input := strings.Join(args, " ")

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			resp, err := client.post(cmd.Context(), "/assistant", map[string]string{
				"input":   input,
				"item_id": itemID,
			})
			if err != nil {
				return err
			}

			var result struct {
				Command    bool            `json:"command"`
				Candidates []core.Workflow `json:"candidates"`
				Selected   *core.Workflow  `json:"selected"`
				Result     *struct {
					Effects []core.EffectCommand `json:"effects"`
				} `json:"result"`
			}
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}

			if !result.Command {
				fmt.Println("Not a command. Prefix input with / to run a workflow.")
				return nil
			}
			if result.Selected == nil {
				fmt.Println("No workflow matches that command.")
				for _, c := range result.Candidates {
					fmt.Printf("  %s  %s\n", colorize(colorBold, c.Command), c.Name)
				}
				return nil
			}

			printSuccess("Ran %s (%s)", result.Selected.Name, result.Selected.Command)
			if result.Result != nil {
				for _, eff := range result.Result.Effects {
					printStep("effect: %s", eff.Kind)
					if prompt := eff.Payload["prompt"]; prompt != "" {
						fmt.Println(prompt)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().String("item", "", "item id the command operates on")
	return cmd
}()

// --- hotkeys ---

var hotkeysCmd = &cobra.Command{
	Use:   "hotkeys",
	Short: "Manage hotkey bindings",
}

var hotkeysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hotkey bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/hotkeys")
		if err != nil {
			return err
		}

		var bindings []core.HotkeyBinding
		if err := decodeJSON(resp, &bindings); err != nil {
			return err
		}

		for _, b := range bindings {
			keys := strings.Join(b.Keys, "+")
			if keys == "" {
				keys = colorize(colorYellow, "unset")
			} else {
				keys = colorize(colorBold, keys)
			}
			state := ""
			if !b.Enabled {
				state = colorize(colorYellow, "  (disabled)")
			}
			fmt.Printf("%-4s  %-12s  %-24s %s%s\n", b.ID, b.Category, b.Action, keys, state)
		}
		return nil
	},
}

var hotkeysBindCmd = &cobra.Command{
	Use:   "bind <id> <key>...",
	Short: "Bind a key sequence to a hotkey",
	Long: `Bind a key sequence to a hotkey.

Examples:
  clipsync hotkeys bind h1 ctrl shift v
  clipsync hotkeys bind h9 ctrl p`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.put(cmd.Context(), "/hotkeys/"+args[0], map[string]any{"keys": args[1:]})
		if err != nil {
			return err
		}

		var binding core.HotkeyBinding
		if err := decodeJSON(resp, &binding); err != nil {
			return err
		}

		printSuccess("Bound %s to %s", binding.ID, strings.Join(binding.Keys, "+"))
		return nil
	},
}

var hotkeysClearCmd = &cobra.Command{
	Use:   "clear <id>",
	Short: "Clear a hotkey binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/hotkeys/"+args[0]+"/keys")
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		printSuccess("Cleared %s", args[0])
		return nil
	},
}

func init() {
	hotkeysCmd.AddCommand(hotkeysListCmd)
	hotkeysCmd.AddCommand(hotkeysBindCmd)
	hotkeysCmd.AddCommand(hotkeysClearCmd)
}

// --- connections ---

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Manage cloud sync connections",
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/connections")
		if err != nil {
			return err
		}

		var connections []core.Connection
		if err := decodeJSON(resp, &connections); err != nil {
			return err
		}

		if len(connections) == 0 {
			fmt.Println("No connections configured.")
			return nil
		}

		for _, c := range connections {
			status := string(c.Status)
			switch c.Status {
			case core.StatusConnected:
				status = colorize(colorGreen, status+" ("+c.AccountID+")")
			case core.StatusError:
				status = colorize(colorRed, status)
			}
			fmt.Printf("%s  %-12s  %-20s %s\n", colorize(colorCyan, c.ID[:8]), c.Type, c.Name, status)
		}
		return nil
	},
}

var connectionsAddCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _ := cmd.Flags().GetString("type")

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			resp, err := client.post(cmd.Context(), "/connections", map[string]string{
				"name": args[0],
				"type": provider,
			})
			if err != nil {
				return err
			}

			var conn core.Connection
			if err := decodeJSON(resp, &conn); err != nil {
				return err
			}

			printSuccess("Added connection %s (%s)", conn.ID, conn.Type)
			return nil
		},
	}
	cmd.Flags().String("type", "", "provider: google_drive, dropbox, onedrive, synology, cloudflare, or custom_api")
	cmd.MarkFlagRequired("type")
	return cmd
}()

var connectionsConnectCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect <id>",
		Short: "Mark a connection as connected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, _ := cmd.Flags().GetString("account")

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			resp, err := client.post(cmd.Context(), "/connections/"+args[0]+"/connected", map[string]string{"account_id": account})
			if err != nil {
				return err
			}
			if err := drainOK(resp); err != nil {
				return err
			}

			printSuccess("Connection %s connected as %s", args[0], account)
			return nil
		},
	}
	cmd.Flags().String("account", "", "account identifier reported by the provider")
	cmd.MarkFlagRequired("account")
	return cmd
}()

var connectionsDisconnectCmd = &cobra.Command{
	Use:   "disconnect <id>",
	Short: "Disconnect a connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/connections/"+args[0]+"/disconnect", nil)
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		printSuccess("Connection %s disconnected", args[0])
		return nil
	},
}

var connectionsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/connections/"+args[0])
		if err != nil {
			return err
		}
		if err := drainOK(resp); err != nil {
			return err
		}

		printSuccess("Connection %s removed", args[0])
		return nil
	},
}

func init() {
	connectionsCmd.AddCommand(connectionsListCmd)
	connectionsCmd.AddCommand(connectionsAddCmd)
	connectionsCmd.AddCommand(connectionsConnectCmd)
	connectionsCmd.AddCommand(connectionsDisconnectCmd)
	connectionsCmd.AddCommand(connectionsRemoveCmd)
}

// --- preview ---

var previewCmd = &cobra.Command{
	Use:   "preview <url>",
	Short: "Fetch a link preview for a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/preview", map[string]string{"url": args[0]})
		if err != nil {
			return err
		}

		var p struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := decodeJSON(resp, &p); err != nil {
			return err
		}

		printStatus("URL", "%s", p.URL)
		printStatus("Title", "%s", p.Title)
		printStatus("Description", "%s", p.Description)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
