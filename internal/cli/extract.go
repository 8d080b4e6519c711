package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultDiseasePrompt = "Name the patient's disease. Answer with the disease name only."
const defaultEventsPrompt = "List the patient's actionable events. Answer with each event in double quotes."

type ExtractOptions struct {
	GlobalOptions

	Type   string
	Prompt string
}

func DefaultExtractOptions() *ExtractOptions {
	return &ExtractOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Type:          "disease",
	}
}

func NewCmdExtract() *cobra.Command {
	o := DefaultExtractOptions()
	cmd := &cobra.Command{
		Use:   "extract [case-notes-file]",
		Short: "Extract the disease or the actionable events from case notes (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ExtractOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.StringVarP(&o.Type, "type", "t", o.Type, "What to extract: disease or events")
	fs.StringVarP(&o.Prompt, "prompt", "p", "", "Override the extraction prompt")
}

func (o *ExtractOptions) Validate(args []string) error {
	if o.Type != "disease" && o.Type != "events" {
		return fmt.Errorf("--type must be disease or events, got %q", o.Type)
	}
	return nil
}

func (o *ExtractOptions) Run(ctx context.Context, args []string) error {
	notes, err := readCaseNotes(args)
	if err != nil {
		return err
	}

	prompt := o.Prompt
	if prompt == "" {
		prompt = defaultDiseasePrompt
		if o.Type == "events" {
			prompt = defaultEventsPrompt
		}
	}

	body, err := json.Marshal(api.ExtractionRequest{
		Text:           notes,
		ExtractionType: o.Type,
		Prompt:         prompt,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.ServerUrl+"/api/v1alpha1/extract", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("extraction rejected with status %d: %s", resp.StatusCode, msg)
	}

	var result api.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	if o.Type == "events" {
		for _, event := range result.Events {
			fmt.Println(event)
		}
		return nil
	}
	fmt.Println(result.Disease)
	return nil
}

func readCaseNotes(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no case notes provided")
	}
	return string(data), nil
}
