package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-exams/internal/answer"
	"github.com/mind-engage/mindengage-exams/internal/assembly"
	"github.com/mind-engage/mindengage-exams/internal/catalog"
	"github.com/mind-engage/mindengage-exams/internal/question"
	"github.com/mind-engage/mindengage-exams/pkg/examclient"
)

func main() {
	cmd := &cli.Command{
		Name:  "examctl",
		Usage: "author, answer and manage exams on an exam service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "exam service base URL",
				Sources: cli.EnvVars("EXAMS_URL"),
			},
			&cli.BoolFlag{
				Name:    "legacy-scoring",
				Usage:   "every choice question is scored",
				Sources: cli.EnvVars("LEGACY_SCORING"),
			},
		},
		Commands: []*cli.Command{
			createCmd(),
			editCmd(),
			showCmd(),
			listCmd(),
			duplicateCmd(),
			answerCmd(),
			uploadCmd(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("examctl: %v", err)
	}
}

func client(cmd *cli.Command) *examclient.Client {
	return examclient.New(examclient.Config{BaseURL: cmd.String("server"), Timeout: 30 * time.Second})
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "YAML file", Required: true}
}

func idArg(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", fmt.Errorf("%s: exam id required", cmd.Name)
	}
	return id, nil
}

// assembler validates locally against the service's topic catalog.
func assembler(ctx context.Context, cmd *cli.Command, c *examclient.Client) (*assembly.Assembler, error) {
	areas, err := c.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(areas)
	if err != nil {
		return nil, err
	}
	return assembly.New(rules(cmd), cat), nil
}

func rules(cmd *cli.Command) question.Rules {
	return question.Rules{ScorableToggle: !cmd.Bool("legacy-scoring")}
}

func createCmd() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "create an exam from a YAML file",
		Flags: []cli.Flag{fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var f examFile
			if err := readYAML(cmd.String("file"), &f); err != nil {
				return err
			}
			c := client(cmd)
			a, err := assembler(ctx, cmd, c)
			if err != nil {
				return err
			}
			p, err := a.Build(f.Form, f.Questions)
			if err != nil {
				return err
			}
			ref, err := c.CreateExam(ctx, p)
			if err != nil {
				return err
			}
			fmt.Println(ref.ExamURL)
			return nil
		},
	}
}

func editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "apply a YAML file to an existing exam and resubmit it",
		ArgsUsage: "<exam-id>",
		Flags:     []cli.Flag{fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := idArg(cmd)
			if err != nil {
				return err
			}
			var f examFile
			if err := readYAML(cmd.String("file"), &f); err != nil {
				return err
			}
			c := client(cmd)
			e, err := c.GetExam(ctx, id)
			if err != nil {
				return err
			}
			a, err := assembler(ctx, cmd, c)
			if err != nil {
				return err
			}
			b := assembly.Reconstruct(e.ID, e.Payload, a.Rules)
			p, err := a.Build(b.Form, apply(b, f))
			if err != nil {
				return err
			}
			ref, err := c.UpdateExam(ctx, id, p)
			if err != nil {
				return err
			}
			fmt.Println(ref.ExamURL)
			return nil
		},
	}
}

func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print the editable YAML of an exam",
		ArgsUsage: "<exam-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := idArg(cmd)
			if err != nil {
				return err
			}
			e, err := client(cmd).GetExam(ctx, id)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(showFile(e, rules(cmd)))
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list exams",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			list, err := client(cmd).ListExams(ctx)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Println(label(s))
			}
			return nil
		},
	}
}

func duplicateCmd() *cli.Command {
	return &cli.Command{
		Name:      "duplicate",
		Usage:     "clone an exam under a new id",
		ArgsUsage: "<exam-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := idArg(cmd)
			if err != nil {
				return err
			}
			ref, err := client(cmd).DuplicateExam(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(ref.ExamURL)
			return nil
		},
	}
}

func answerCmd() *cli.Command {
	return &cli.Command{
		Name:      "answer",
		Usage:     "submit a respondent's answers from a YAML file",
		ArgsUsage: "<exam-id>",
		Flags:     []cli.Flag{fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := idArg(cmd)
			if err != nil {
				return err
			}
			var f answersFile
			if err := readYAML(cmd.String("file"), &f); err != nil {
				return err
			}
			c := client(cmd)
			pub, err := c.PublicExam(ctx, id)
			if err != nil {
				return err
			}
			sheet := answer.NewSheet(pub.ID, pub.Questions)
			if err := fillSheet(sheet, f.Answers); err != nil {
				return err
			}
			sub, err := sheet.Submit(f.Respondent)
			if err != nil {
				return err
			}
			if err := c.Submit(ctx, sub); err != nil {
				return err
			}
			fmt.Printf("submitted %d answers to %s\n", len(sub.Answers), pub.ID)
			return nil
		},
	}
}

func uploadCmd() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload support material for an exam",
		ArgsUsage: "<exam-id> <file>...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := idArg(cmd)
			if err != nil {
				return err
			}
			paths := cmd.Args().Tail()
			if len(paths) == 0 {
				return fmt.Errorf("upload: at least one file required")
			}
			files := make([]examclient.File, 0, len(paths))
			for _, p := range paths {
				fh, err := os.Open(p)
				if err != nil {
					return err
				}
				defer fh.Close()
				files = append(files, examclient.File{Name: filepath.Base(p), Body: fh})
			}
			up, err := client(cmd).UploadSupport(ctx, id, files)
			if err != nil {
				return err
			}
			for _, u := range up {
				fmt.Printf("%s\t%s\n", u.Name, u.URL)
			}
			return nil
		},
	}
}
