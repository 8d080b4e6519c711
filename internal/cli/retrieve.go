package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/stream"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type RetrieveOptions struct {
	GlobalOptions

	Disease     string
	Events      []string
	NumArticles int
}

func DefaultRetrieveOptions() *RetrieveOptions {
	return &RetrieveOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdRetrieve() *cobra.Command {
	o := DefaultRetrieveOptions()
	cmd := &cobra.Command{
		Use:   "retrieve --disease DISEASE --event EVENT [--event EVENT ...]",
		Short: "Retrieve and score articles for a patient case, printing progress as it streams",
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

func (o *RetrieveOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.StringVarP(&o.Disease, "disease", "d", "", "Patient disease")
	fs.StringArrayVarP(&o.Events, "event", "e", nil, "Patient actionable event (repeatable)")
	fs.IntVarP(&o.NumArticles, "num-articles", "n", 0, "Number of candidate articles to request")
}

func (o *RetrieveOptions) Validate(args []string) error {
	if o.Disease == "" {
		return fmt.Errorf("--disease is required")
	}
	if len(o.Events) == 0 {
		return fmt.Errorf("at least one --event is required")
	}
	return nil
}

func (o *RetrieveOptions) Run(ctx context.Context, args []string) error {
	body, err := json.Marshal(api.RetrievalRequest{
		Disease:     o.Disease,
		Events:      o.Events,
		NumArticles: o.NumArticles,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.ServerUrl+"/api/v1alpha1/retrieve", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// no client timeout: the stream stays open for the whole session
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("retrieval rejected with status %d: %s", resp.StatusCode, msg)
	}

	return o.consume(stream.NewReader(resp.Body))
}

func (o *RetrieveOptions) consume(reader *stream.Reader) error {
	for {
		record, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch record.Type {
		case stream.TypePMIDs:
			pmids, err := record.PMIDs()
			if err != nil {
				return err
			}
			fmt.Printf("candidates: %v\n", pmids.PMIDs)
		case stream.TypeMetadata:
			meta, err := record.Metadata()
			if err != nil {
				return err
			}
			if meta.Status == stream.StatusProcessing && meta.TotalArticles != nil {
				fmt.Printf("processing %d articles...\n", *meta.TotalArticles)
			} else {
				fmt.Printf("session %s\n", meta.Status)
			}
		case stream.TypeArticleAnalysis:
			analysis, err := record.ArticleAnalysis()
			if err != nil {
				return err
			}
			article := analysis.Analysis.ArticleMetadata
			fmt.Printf("[%d/%d] %4d pts  PMID %s  %s\n",
				analysis.Progress.ArticleNumber, analysis.Progress.TotalArticles,
				article.OverallPoints, article.PMID, article.Title)
		case stream.TypeError:
			errRecord, err := record.Error()
			if err != nil {
				return err
			}
			return fmt.Errorf("retrieval failed: %s", errRecord.Message)
		}
	}
}
