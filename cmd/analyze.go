package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/insights"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

const analyzeSystemPrompt = `You are a tennis performance analyst. You are given structured rally data
from a video-tracking tool and a question from the player or coach.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable — focus on what the player can actually improve.
- Avoid generic tennis advice unless it directly explains a pattern in the data.

Metrics glossary:
- Shot speed (km/h): ball speed over the segment between consecutive bounces.
- Move speed (km/h): how fast the opponent covered ground during a segment.
- Recovery (s): time after a shot until the non-striking player returned to
  within 1.5 m of their baseline center. A missed recovery means they never
  made it back before the next shot.
- Distance traveled (m): total ground covered across the whole rally.
- First ball/zone touch (s): earliest moment the player reached the ball /
  their recovery zone. -1 means never.
- Ball status: IN or OUT at each bounce, judged against the court polygon.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeLocal  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <hash-prefix> [question]",
	Short: "AI-powered grounded analysis of a stored run",
	Long: `Build a grounded JSON context from a stored run and ask an AI model a
question about it. Without a question, a general coaching review is requested.

Requires ANTHROPIC_API_KEY (or --api-key). When no key is configured, or
with --local, a deterministic numeric summary is printed instead, computed
purely from the stored statistics.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().BoolVar(&analyzeLocal, "local", false, "skip the API and print the deterministic summary")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	run, err := db.GetRunByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no run found with hash prefix %q", args[0])
	}

	stats, err := db.GetPlayerRunStats(run.RunHash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	segs, err := db.GetSegments(run.RunHash)
	if err != nil {
		return fmt.Errorf("get segments: %w", err)
	}

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if analyzeLocal || apiKey == "" {
		if apiKey == "" && !analyzeLocal {
			fmt.Fprintln(os.Stderr, "No API key configured, falling back to local analysis.")
		}
		fmt.Fprintln(os.Stdout)
		fmt.Fprint(os.Stdout, insights.Narrative(*run, stats, segs))
		return nil
	}

	question := "Give a short coaching review of this rally."
	if len(args) == 2 {
		question = args[1]
	}

	contextJSON, err := insights.BuildContext(*run, stats, segs)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	// An API failure degrades to the local narrative instead of aborting:
	// the stored numbers are always available.
	if err := callAnthropic(cmd.Context(), apiKey, analyzeModel, contextJSON, question); err != nil {
		fmt.Fprintf(os.Stderr, "AI analysis failed (%v), falling back to local analysis.\n\n", err)
		fmt.Fprint(os.Stdout, insights.Narrative(*run, stats, segs))
	}
	return nil
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		// Provide a cleaner error message for common API errors.
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
