package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/lyrics"
	"tracksmartin/internal/shared"
)

// TagsValidate checks a comma-separated tag string against the corpus and
// reports unknown tags with correction candidates.
func (r *Runner) TagsValidate(ctx context.Context, cmd *cli.Command) error {
	if r.resolver == nil {
		return fmt.Errorf("%w: tag corpus not loaded", shared.ErrMissingConfig)
	}
	raw := cmd.StringArg("tags")
	if raw == "" {
		return fmt.Errorf("%w: tag string required", shared.ErrMissingArgument)
	}

	result := r.resolver.Validate(raw, cmd.Bool("enhance"))

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if len(result.Valid) > 0 {
		r.writePlain("✓ Valid: %s\n", strings.Join(result.Valid, ", "))
	}
	for _, unknown := range result.Unknown {
		r.writePlain("✗ Unknown: %s", unknown.Token)
		if len(unknown.Suggestions) > 0 {
			names := make([]string, len(unknown.Suggestions))
			for i, s := range unknown.Suggestions {
				names[i] = fmt.Sprintf("%s (%.2f)", s.Entry.Name, s.Score)
			}
			r.writePlain(" (did you mean: %s)", strings.Join(names, ", "))
		}
		r.writePlain("\n")
	}
	if len(result.Enhanced) > 0 {
		r.writePlain("\n+ Suggested additions: %s\n", strings.Join(result.Enhanced, ", "))
	}
	return nil
}

// TagsSuggest fuzzy-searches the corpus for tags matching a query.
func (r *Runner) TagsSuggest(ctx context.Context, cmd *cli.Command) error {
	if r.index == nil {
		return fmt.Errorf("%w: tag corpus not loaded", shared.ErrMissingConfig)
	}
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query required", shared.ErrMissingArgument)
	}

	suggestions := r.index.Search(query, int(cmd.Int("limit")))

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, true)
	}

	if len(suggestions) == 0 {
		r.writePlain("No tags matching %q\n", query)
		return nil
	}

	for i, s := range suggestions {
		r.writePlain("%d. %s (score %.2f, frequency %d)\n", i+1, s.Entry.Name, s.Score, s.Entry.Frequency)
	}
	return nil
}

// TagsCompatible lists tags that pair well with a given tag.
func (r *Runner) TagsCompatible(ctx context.Context, cmd *cli.Command) error {
	if r.index == nil {
		return fmt.Errorf("%w: tag corpus not loaded", shared.ErrMissingConfig)
	}
	name := cmd.StringArg("tag")
	if name == "" {
		return fmt.Errorf("%w: tag required", shared.ErrMissingArgument)
	}

	compatible := r.index.CompatibleWith(name, int(cmd.Int("limit")))

	if cmd.Bool("json") {
		return r.writeJSON(compatible, true)
	}

	if len(compatible) == 0 {
		r.writePlain("No pairing data for %q\n", name)
		return nil
	}

	r.writePlain("Tags that pair well with %q:\n", name)
	for i, wt := range compatible {
		r.writePlain("%d. %s (weight %d)\n", i+1, wt.Entry.Name, wt.Weight)
	}
	return nil
}

// Genres lists the lyric genre templates, or shows the tag neighborhood of
// one genre.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("genre")

	if name == "" {
		if cmd.Bool("json") {
			return r.writeJSON(lyrics.Genres(), true)
		}
		r.writePlainHeader("Lyric Genres")
		for _, g := range lyrics.Genres() {
			r.writePlain("  %s\n", g)
		}
		return nil
	}

	if r.resolver == nil {
		return fmt.Errorf("%w: tag corpus not loaded", shared.ErrMissingConfig)
	}
	compatible, err := r.resolver.SearchGenre(name, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	normalized := lyrics.Normalize(name)
	if desc := lyrics.Describe(normalized); desc != "" {
		r.writePlain("%s\n\n", desc)
	}

	r.writePlain("Common %s tags:\n", normalized)
	for i, wt := range compatible {
		r.writePlain("%d. %s (weight %d)\n", i+1, wt.Entry.Name, wt.Weight)
	}
	return nil
}

// tagsCommand handles style tag corpus operations
func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "Style tag validation and discovery",
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Check tags against the corpus",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "tags"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "enhance",
						Usage: "Suggest complementary tags",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TagsValidate,
			},
			{
				Name:  "suggest",
				Usage: "Fuzzy-search the tag corpus",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TagsSuggest,
			},
			{
				Name:  "compatible",
				Usage: "List tags that pair well with a tag",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "tag"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TagsCompatible,
			},
		},
	}
}

// genresCommand lists lyric genres and their tag neighborhoods
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "List lyric genres or inspect one genre's tags",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "genre"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum tags to show",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Genres,
	}
}
