package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ardanlabs/vk-converter/analysis"
	"github.com/ardanlabs/vk-converter/generator"
	"github.com/ardanlabs/vk-converter/registry"
)

func main() {
	if err := newCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCLI() *cobra.Command {
	var registryDir string
	var verbosity int

	rootCmd := &cobra.Command{
		Use:           "vk-converter",
		Short:         "Generate Go bindings from the Vulkan XML registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			switch {
			case verbosity == 1:
				level = slog.LevelDebug
			case verbosity > 1:
				level = registry.LevelTrace
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&registryDir, "registry", "registry", "Directory containing vk.xml and video.xml")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go source from the registries",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir, _ := cmd.Flags().GetString("output")
			packageName, _ := cmd.Flags().GetString("package")

			a, err := loadAnalysis(registryDir)
			if err != nil {
				return err
			}

			files, err := generator.New(packageName, a.Items).Generate()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return err
			}
			for filename, content := range files {
				path := filepath.Join(outputDir, filename)
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return err
				}
				fmt.Printf("Generated: %s\n", path)
			}

			return nil
		},
	}
	generateCmd.Flags().String("output", ".", "Output directory for generated Go files")
	generateCmd.Flags().String("package", "vk", "Go package name")

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the core registry as pseudo-declarations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadAnalysis(registryDir)
			if err != nil {
				return err
			}
			dump(a.VK.Registry)

			return nil
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show per-library entity counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadAnalysis(registryDir)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"KIND", "VK", "VIDEO"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			table.AppendBulk(statRows(a.VK.Registry, a.Video.Registry))
			table.Render()
			fmt.Printf("\ncatalogue items: %d\n", a.Items.Len())

			return nil
		},
	}

	rootCmd.AddCommand(generateCmd, dumpCmd, infoCmd)

	return rootCmd
}

// loadAnalysis reads the two registry documents and runs the full
// ingestion. File access stays out here; the analysis core only ever sees
// document bytes.
func loadAnalysis(registryDir string) (*analysis.Analysis, error) {
	vkXML, err := os.ReadFile(filepath.Join(registryDir, "vk.xml"))
	if err != nil {
		return nil, fmt.Errorf("reading vk registry: %w", err)
	}
	videoXML, err := os.ReadFile(filepath.Join(registryDir, "video.xml"))
	if err != nil {
		return nil, fmt.Errorf("reading video registry: %w", err)
	}

	return analysis.New(vkXML, videoXML)
}

func dump(reg *registry.Registry) {
	for _, fp := range reg.FuncPointers {
		fmt.Printf("typedef %s;\n", fp.Decl)
	}
	for _, st := range reg.Structs {
		fmt.Printf("struct %s {\n", st.Name)
		for _, m := range st.Members {
			fmt.Printf("    %s", m.Decl)
			if m.Values != "" {
				fmt.Printf(" = %s", m.Values)
			}
			fmt.Println(";")
		}
		fmt.Println("};")
	}
	for _, cmd := range reg.Commands {
		ret := "void"
		if cmd.ReturnType != nil {
			ret = cmd.ReturnType.String()
		}
		fmt.Printf("%s %s(\n", ret, cmd.Name)
		for _, p := range cmd.Params {
			fmt.Printf("    %s,\n", p.Decl)
		}
		fmt.Println(");")
	}
}

func statRows(vk, video *registry.Registry) [][]string {
	counts := func(r *registry.Registry) []int {
		return []int{
			len(r.Externals), len(r.BaseTypes), len(r.Handles), len(r.EnumTypes),
			len(r.BitMaskTypes), len(r.FuncPointers), len(r.Structs), len(r.Unions),
			len(r.Constants), len(r.Enums), len(r.BitMasks), len(r.Commands),
			len(r.Features), len(r.Extensions),
		}
	}
	kinds := []string{
		"externals", "basetypes", "handles", "enum types",
		"bitmask types", "funcpointers", "structs", "unions",
		"constants", "enums", "bitmasks", "commands",
		"features", "extensions",
	}

	vkCounts, videoCounts := counts(vk), counts(video)
	rows := make([][]string, len(kinds))
	for i, kind := range kinds {
		rows[i] = []string{kind, strconv.Itoa(vkCounts[i]), strconv.Itoa(videoCounts[i])}
	}

	return rows
}
