package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-palette/internal/handlers/palette/v1alpha1"
)

var (
	actorID     string
	tokenID     string
	itemID      string
	rightClick  bool
	extraJSON   string
	skill       string
	ring        string
	title       string
	description string
)

var listEntriesCmd = &cobra.Command{
	Use:   "list-entries [list]",
	Short: "List a resolved domain list",
	Long: `List one of technique_types, inventory_groups, rings, derived, standing
or skill_categories. derived, standing and skill_categories need --actor.

  Example: list-entries rings --actor a1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodListEntries, withOptional(
			map[string]any{"list": args[0]},
			map[string]string{"actor_id": actorID},
		))
	},
}

var buildPaletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Build the action palette for an actor or the controlled tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodBuildPalette, withOptional(
			map[string]any{},
			map[string]string{"actor_id": actorID},
		))
	},
}

var handleActionCmd = &cobra.Command{
	Use:   "action [encoded-value]",
	Short: "Dispatch a palette click",
	Long: `Dispatch an encoded type|id value as if the palette button was clicked.

  Example: action "skill|fitness" --actor a1
  Example: action "ring|water" --right-click`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := withOptional(
			map[string]any{"encoded_value": args[0], "right_click": rightClick},
			map[string]string{"actor_id": actorID, "token_id": tokenID},
		)
		if err := addExtra(fields); err != nil {
			return err
		}
		return call(cmd, v1alpha1.MethodHandleAction, fields)
	},
}

var openPickerCmd = &cobra.Command{
	Use:   "picker",
	Short: "Open the dice picker for an actor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields := withOptional(map[string]any{}, map[string]string{
			"actor_id": actorID,
			"token_id": tokenID,
			"item_id":  itemID,
			"skill":    skill,
			"ring":     ring,
			"title":    title,
		})
		if err := addExtra(fields); err != nil {
			return err
		}
		return call(cmd, v1alpha1.MethodOpenDicePicker, fields)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [actor-id] [kind]",
	Short: "Show the dispatch journal for an actor and action kind",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodGetDispatchHistory, map[string]any{
			"actor_id": args[0],
			"kind":     args[1],
		})
	},
}

var rollPoolCmd = &cobra.Command{
	Use:   "roll [actor-id] [ring-dice] [skill-dice]",
	Short: "Roll a ring and skill dice pool",
	Long: `Roll ring dice and skill dice and show the tallied symbols.

  Example: roll a1 3 2 --description "fitness (water)"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ringDice, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("ring dice must be a number: %w", err)
		}
		skillDice, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("skill dice must be a number: %w", err)
		}
		return call(cmd, v1alpha1.MethodRollPool, withOptional(
			map[string]any{"actor_id": args[0], "ring_dice": ringDice, "skill_dice": skillDice},
			map[string]string{"description": description},
		))
	},
}

func init() {
	listEntriesCmd.Flags().StringVar(&actorID, "actor", "", "actor id")
	buildPaletteCmd.Flags().StringVar(&actorID, "actor", "", "actor id; empty means the controlled tokens")

	handleActionCmd.Flags().StringVar(&actorID, "actor", "", "actor id; empty means the controlled tokens")
	handleActionCmd.Flags().StringVar(&tokenID, "token", "", "token id")
	handleActionCmd.Flags().BoolVar(&rightClick, "right-click", false, "treat a ring click as a stance change")
	handleActionCmd.Flags().StringVar(&extraJSON, "extra", "", "JSON object merged into the roll options")

	openPickerCmd.Flags().StringVar(&actorID, "actor", "", "actor id")
	openPickerCmd.Flags().StringVar(&tokenID, "token", "", "token id")
	openPickerCmd.Flags().StringVar(&itemID, "item", "", "item id")
	openPickerCmd.Flags().StringVar(&skill, "skill", "", "skill id")
	openPickerCmd.Flags().StringVar(&ring, "ring", "", "ring id")
	openPickerCmd.Flags().StringVar(&title, "title", "", "dialog title")
	openPickerCmd.Flags().StringVar(&extraJSON, "extra", "", "JSON object merged into the roll options")

	rollPoolCmd.Flags().StringVar(&description, "description", "", "roll description")
}

func addExtra(fields map[string]any) error {
	if extraJSON == "" {
		return nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(extraJSON), &extra); err != nil {
		return fmt.Errorf("--extra must be a JSON object: %w", err)
	}
	fields["extra"] = extra
	return nil
}
