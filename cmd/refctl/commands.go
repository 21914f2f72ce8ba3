package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/afamplan/internal/core"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	schema string
	json   bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "refctl",
		Short:         "Inspect an AFAM reference table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.schema, "schema", "auto", "record layout: auto, nested or flat")
	root.PersistentFlags().BoolVar(&g.json, "json", false, "print JSON instead of text")

	root.AddCommand(
		newValidateCmd(g),
		newCodesCmd(g),
		newLegacyCmd(g),
		newFieldsCmd(g),
		newMatchCmd(g),
	)
	return root
}

// load reads the table at path with the schema flag.
func (g *globalFlags) load(ctx context.Context, path string) (*reference.Table, error) {
	schema, err := reference.ParseSchema(g.schema)
	if err != nil {
		return nil, err
	}
	return reference.Fetch(ctx, reference.FileSource{Path: path}, schema)
}

// emit prints v as JSON, or calls text when --json is off.
func (g *globalFlags) emit(w io.Writer, v any, text func(w io.Writer)) error {
	if g.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

type validateResult struct {
	Records      int      `json:"records"`
	Schema       string   `json:"schema"`
	Areas        []string `json:"areas"`
	UnknownAreas []string `json:"unknownAreas"`
}

func newValidateCmd(g *globalFlags) *cobra.Command {
	var areasPath string
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Load a reference file and report what it holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			catalog, err := reference.LoadAreas(areasPath)
			if err != nil {
				return err
			}

			res := validateResult{Records: t.Len(), Schema: string(t.Schema), Areas: []string{}, UnknownAreas: []string{}}
			for _, a := range t.Areas() {
				res.Areas = append(res.Areas, string(a))
				if !catalog.Known(a) {
					res.UnknownAreas = append(res.UnknownAreas, string(a))
				}
			}
			return g.emit(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "records: %d\n", res.Records)
				fmt.Fprintf(w, "schema: %s\n", res.Schema)
				fmt.Fprintf(w, "areas: %s\n", strings.Join(res.Areas, ", "))
				if len(res.UnknownAreas) > 0 {
					fmt.Fprintf(w, "not in catalog: %s\n", strings.Join(res.UnknownAreas, ", "))
				}
			})
		},
	}
	cmd.Flags().StringVar(&areasPath, "areas", "", "area catalog YAML (default: built-in)")
	return cmd
}

type labelled struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func printLabelled(w io.Writer, items []labelled) {
	for _, it := range items {
		if it.Label == "" {
			fmt.Fprintln(w, it.Code)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", it.Code, it.Label)
	}
}

func newCodesCmd(g *globalFlags) *cobra.Command {
	var area string
	cmd := &cobra.Command{
		Use:   "codes <file>",
		Short: "List the new codes of an area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			items := []labelled{}
			for _, c := range t.CodesForArea(reference.Area(area)) {
				items = append(items, labelled{Code: c, Label: t.LabelForCode(c)})
			}
			return g.emit(cmd.OutOrStdout(), items, func(w io.Writer) { printLabelled(w, items) })
		},
	}
	cmd.Flags().StringVar(&area, "area", "", "area code, e.g. ISSM")
	cmd.MarkFlagRequired("area")
	return cmd
}

func newLegacyCmd(g *globalFlags) *cobra.Command {
	var area, code, profile string
	var fallback bool
	cmd := &cobra.Command{
		Use:   "legacy <file>",
		Short: "List the old codes linked to a new code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			q := reference.LegacyQuery{ProfileHint: profile, FallbackToUnfiltered: fallback}
			items := []labelled{}
			for _, c := range t.LegacyCodesForSelection(reference.Area(area), code, q) {
				items = append(items, labelled{Code: c, Label: t.LegacyLabel(c)})
			}
			return g.emit(cmd.OutOrStdout(), items, func(w io.Writer) { printLabelled(w, items) })
		},
	}
	cmd.Flags().StringVar(&area, "area", "", "area code")
	cmd.Flags().StringVar(&code, "code", "", "new code")
	cmd.Flags().StringVar(&profile, "profile", "", "profile used as a hint on old code labels")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "list every old code when the hint matches none")
	cmd.MarkFlagRequired("area")
	cmd.MarkFlagRequired("code")
	return cmd
}

func newFieldsCmd(g *globalFlags) *cobra.Command {
	var oldCode string
	cmd := &cobra.Command{
		Use:   "fields <file>",
		Short: "List the disciplinary fields of an old code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fields := t.DisciplinaryFields(oldCode)
			return g.emit(cmd.OutOrStdout(), fields, func(w io.Writer) {
				for _, f := range fields {
					fmt.Fprintln(w, f)
				}
			})
		},
	}
	cmd.Flags().StringVar(&oldCode, "old-code", "", "old code, e.g. COMJ/09")
	cmd.MarkFlagRequired("old-code")
	return cmd
}

func newMatchCmd(g *globalFlags) *cobra.Command {
	var code, profile string
	var strict bool
	cmd := &cobra.Command{
		Use:   "match <file>",
		Short: "Suggest the disciplinary field closest to a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m, ok := t.BestDisciplinaryField(code, profile, !strict)
			if !ok {
				return fmt.Errorf("%w: code %q, profile %q", core.ErrNoMatch, code, profile)
			}
			return g.emit(cmd.OutOrStdout(), m, func(w io.Writer) {
				fmt.Fprintf(w, "old code: %s (%s)\n", m.LegacyCode, m.LegacyName)
				fmt.Fprintf(w, "profile: %s\n", m.Profile)
				fmt.Fprintf(w, "field: %s\n", m.BestField)
				fmt.Fprintf(w, "score: %.2f\n", m.Score)
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "new code")
	cmd.Flags().StringVar(&profile, "profile", "", "profile")
	cmd.Flags().BoolVar(&strict, "strict", false, "compare code and profile exactly")
	cmd.MarkFlagRequired("code")
	cmd.MarkFlagRequired("profile")
	return cmd
}
