package cli

import (
	"PostureGuard/pkg/posture"
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

const progressTemplate = `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.01f%%" "?"}} {{etime . "%s elapsed"}}`

type frameReport struct {
	Frame int `json:"frame"`
	posture.FrameResult
}

// readLandmarkFile accepts a single landmark set or an array of them. A null
// entry stands for a frame without a detected pose.
func readLandmarkFile(path string) ([]posture.LandmarkSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var many []posture.LandmarkSet
	if err := jsoniter.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one posture.LandmarkSet
	if err := jsoniter.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("%s: expected a landmark array or an array of them: %w", path, err)
	}
	return []posture.LandmarkSet{one}, nil
}

func evaluateFrames(ev *posture.Evaluator, frames []posture.LandmarkSet, activity posture.Activity, progress io.Writer) ([]frameReport, error) {
	bar := pb.ProgressBarTemplate(progressTemplate).New(len(frames))
	bar.Set("prefix", string(activity))
	bar.SetWriter(progress)
	bar.Start()
	defer bar.Finish()

	reports := make([]frameReport, 0, len(frames))
	for i, set := range frames {
		result, err := ev.Evaluate(set, activity)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		reports = append(reports, frameReport{Frame: i, FrameResult: result})
		bar.Increment()
	}
	return reports, nil
}

func writeReports(w io.Writer, reports []frameReport, asJSON bool) error {
	if asJSON {
		enc := jsoniter.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		if len(r.Issues) == 0 {
			fmt.Fprintf(w, "frame %d: OK\n", r.Frame)
			continue
		}
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "frame %d: %s\n", r.Frame, issue)
		}
	}
	return nil
}

func evaluateCmd() *cobra.Command {
	var (
		activityName   string
		file           string
		thresholdsFile string
		asJSON         bool
	)

	c := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate landmark frames from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			activity, err := posture.ParseActivity(activityName)
			if err != nil {
				return fmt.Errorf("%w (want one of %v)", err, posture.Activities())
			}

			t, err := loadThresholds(thresholdsFile)
			if err != nil {
				return err
			}

			ev, err := posture.NewEvaluator(t)
			if err != nil {
				return err
			}

			frames, err := readLandmarkFile(file)
			if err != nil {
				return err
			}

			reports, err := evaluateFrames(ev, frames, activity, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return writeReports(cmd.OutOrStdout(), reports, asJSON)
		},
	}

	c.Flags().StringVarP(&activityName, "activity", "a", string(posture.ActivitySquat), "Activity whose rules apply (squat or desk)")
	c.Flags().StringVarP(&file, "file", "f", "", "Landmark JSON file (required)")
	c.Flags().StringVarP(&thresholdsFile, "thresholds", "t", "", "Thresholds YAML file (optional)")
	c.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	_ = c.MarkFlagRequired("file")
	return c
}
