package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MacroPower/xgoimages/pkg/config"
	"github.com/MacroPower/xgoimages/pkg/dockerfile"
	"github.com/MacroPower/xgoimages/pkg/generator"
	"github.com/MacroPower/xgoimages/pkg/http"
	"github.com/MacroPower/xgoimages/pkg/release"
	"github.com/MacroPower/xgoimages/pkg/state"
)

const (
	generateDesc = `This command fetches the current stable Go releases and generates a
Dockerfile per release, per major.minor line, and a pointer to the newest line.
The release versions and the feed digest are saved for the matrix command.
`
	generateExample = `  # Generate into ./docker using the default feed
  xgoimages generate

  # Generate a single-architecture image set
  xgoimages generate --arch amd64 --output_dir images
`
)

// NewGenerateCmd returns the generate command.
func NewGenerateCmd(arg *RootArgs) *cobra.Command {
	args := NewGenerateArgs(arg)
	def := config.Default()

	cmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate Dockerfiles for the current Go releases",
		Long:         generateDesc,
		Example:      generateExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cc *cobra.Command, _ []string) error {
			cfg, err := loadConfig(args.root)
			if err != nil {
				return err
			}

			if err := args.apply(cc.Flags(), cfg); err != nil {
				return err
			}

			renderer, err := dockerfile.NewRenderer(dockerfile.Options{
				BaseImage:       cfg.BaseImage,
				LatestImage:     cfg.LatestImage,
				DownloadBaseURL: cfg.DownloadBaseURL,
				Bootstrap:       cfg.Bootstrap,
			})
			if err != nil {
				return err
			}

			g := generator.New(
				release.NewFetcher(http.NewClient(cfg.Timeout), cfg.FeedURL),
				renderer,
				state.NewStore(cfg.VersionFile, cfg.HashFile),
				generator.Options{
					OS:        cfg.OS,
					Arches:    cfg.Arches,
					OutputDir: cfg.OutputDir,
					LatestDir: cfg.LatestDir,
				},
			)

			res, err := g.Run(cc.Context())
			if err != nil {
				return err
			}

			slog.Info("generated dockerfiles",
				slog.Int("count", len(res.Artifacts)),
				slog.String("latest", res.Latest.Wildcard),
				slog.String("output_dir", cfg.OutputDir),
			)

			return nil
		},
	}

	cmd.Flags().StringVar(args.feedURL, "feed_url", def.FeedURL, "Release feed URL")
	cmd.Flags().StringVar(args.downloadBaseURL, "download_base_url", def.DownloadBaseURL, "Base URL of release downloads")
	cmd.Flags().StringVar(args.os, "os", def.OS, "Operating system of the release files")
	cmd.Flags().StringSliceVar(args.arches, "arch", def.Arches, "Architectures of the release files, default first")
	cmd.Flags().StringVarP(args.outputDir, "output_dir", "o", def.OutputDir, "Directory to generate Dockerfiles in")
	cmd.Flags().StringVar(args.baseImage, "base_image", def.BaseImage, "Image concrete Dockerfiles build from")
	cmd.Flags().StringVar(args.latestImage, "latest_image", def.LatestImage, "Image repository of the latest pointer")
	cmd.Flags().StringVar(args.latestDir, "latest_dir", def.LatestDir, "Directory name of the latest pointer")
	cmd.Flags().StringVar(args.bootstrap, "bootstrap", def.Bootstrap, "Instruction that installs the toolchain")
	cmd.Flags().StringVar(args.versionFile, "version_file", def.VersionFile, "File to save release versions to")
	cmd.Flags().StringVar(args.hashFile, "hash_file", def.HashFile, "File to save the feed digest to")
	cmd.Flags().DurationVar(args.timeout, "timeout", def.Timeout, "Timeout for the feed request")

	must(cmd.MarkFlagDirname("output_dir"))
	must(cmd.MarkFlagFilename("version_file"))
	must(cmd.MarkFlagFilename("hash_file"))

	return cmd
}

type GenerateArgs struct {
	root            *RootArgs
	feedURL         *string
	downloadBaseURL *string
	os              *string
	arches          *[]string
	outputDir       *string
	baseImage       *string
	latestImage     *string
	latestDir       *string
	bootstrap       *string
	versionFile     *string
	hashFile        *string
	timeout         *time.Duration
}

func NewGenerateArgs(root *RootArgs) *GenerateArgs {
	return &GenerateArgs{
		root:            root,
		feedURL:         new(string),
		downloadBaseURL: new(string),
		os:              new(string),
		arches:          new([]string),
		outputDir:       new(string),
		baseImage:       new(string),
		latestImage:     new(string),
		latestDir:       new(string),
		bootstrap:       new(string),
		versionFile:     new(string),
		hashFile:        new(string),
		timeout:         new(time.Duration),
	}
}

// apply overrides cfg with the flags set on the command line.
func (a *GenerateArgs) apply(flags *pflag.FlagSet, cfg *config.Config) error {
	strs := map[string]struct {
		dst *string
		src *string
	}{
		"feed_url":          {&cfg.FeedURL, a.feedURL},
		"download_base_url": {&cfg.DownloadBaseURL, a.downloadBaseURL},
		"os":                {&cfg.OS, a.os},
		"output_dir":        {&cfg.OutputDir, a.outputDir},
		"base_image":        {&cfg.BaseImage, a.baseImage},
		"latest_image":      {&cfg.LatestImage, a.latestImage},
		"latest_dir":        {&cfg.LatestDir, a.latestDir},
		"bootstrap":         {&cfg.Bootstrap, a.bootstrap},
		"version_file":      {&cfg.VersionFile, a.versionFile},
		"hash_file":         {&cfg.HashFile, a.hashFile},
	}
	for name, f := range strs {
		if flags.Changed(name) {
			*f.dst = *f.src
		}
	}

	if flags.Changed("arch") {
		cfg.Arches = *a.arches
	}
	if flags.Changed("timeout") {
		cfg.Timeout = *a.timeout
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return nil
}
