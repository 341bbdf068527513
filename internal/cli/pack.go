package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/nestpack/internal/engine"
	"github.com/piwi3910/nestpack/internal/export"
	"github.com/piwi3910/nestpack/internal/importer"
	"github.com/piwi3910/nestpack/internal/model"
)

// packOptions collects the pack command flags.
type packOptions struct {
	config    string
	binWidth  float64
	binHeight float64
	algorithm string
	policy    string
	heuristic string
	splitRule string
	noSort    bool
	noRotate  bool
	items     []string
	pdfPath   string
	dxfPath   string
	xlsxPath  string
	labels    string
}

func newPackCmd() *cobra.Command {
	opts := &packOptions{}

	cmd := &cobra.Command{
		Use:   "pack [item-file]",
		Short: "Pack an item list into bins and export the layouts",
		Long: `Pack reads rectangular items from a CSV or XLSX file (columns: label,
width, height, quantity) and/or from repeated --item flags, packs them
into fixed-size bins, and writes the requested export files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "TOML config file with pack settings")
	flags.Float64Var(&opts.binWidth, "bin-width", 0, "bin width in mm")
	flags.Float64Var(&opts.binHeight, "bin-height", 0, "bin height in mm")
	flags.StringVar(&opts.algorithm, "algorithm", "", "placement algorithm (shelf, guillotine, maximal_rectangle, skyline)")
	flags.StringVar(&opts.policy, "policy", "", "bin-selection policy (first_fit, best_fit)")
	flags.StringVar(&opts.heuristic, "heuristic", "", "placement heuristic (see 'nestpack algorithms')")
	flags.StringVar(&opts.splitRule, "split-rule", "", "guillotine split rule")
	flags.BoolVar(&opts.noSort, "no-sort", false, "keep submission order instead of sorting by descending area")
	flags.BoolVar(&opts.noRotate, "no-rotation", false, "disable 90 degree rotation")
	flags.StringArrayVarP(&opts.items, "item", "i", nil, "item spec WIDTHxHEIGHT[:QTY], repeatable")
	flags.StringVar(&opts.pdfPath, "pdf", "", "write layout PDF to this path")
	flags.StringVar(&opts.dxfPath, "dxf", "", "write layout DXF to this path")
	flags.StringVar(&opts.xlsxPath, "xlsx", "", "write cut-list XLSX to this path")
	flags.StringVar(&opts.labels, "labels", "", "write QR label PDF to this path")

	return cmd
}

func runPack(cmd *cobra.Command, args []string, opts *packOptions) error {
	logger := loggerFromContext(cmd.Context())

	settings, err := loadSettings(opts.config)
	if err != nil {
		return err
	}
	applyOverrides(&settings, opts)

	items, err := collectItems(args, opts, logger)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no items to pack; pass an item file or --item")
	}

	logger.Info("packing",
		"items", len(items),
		"bin", fmt.Sprintf("%gx%g", settings.BinWidth, settings.BinHeight),
		"algorithm", settings.Algorithm,
		"policy", settings.Policy)

	manager, err := engine.NewManager(settings)
	if err != nil {
		return err
	}
	manager.AddItems(items...)
	if err := manager.Execute(); err != nil {
		return err
	}

	result := manager.Result()
	logger.Info("packed",
		"bins", len(result.Bins),
		"placed", result.ItemCount(),
		"efficiency", fmt.Sprintf("%.1f%%", result.TotalEfficiency()))

	exports := []struct {
		path string
		kind string
		fn   func(string, model.PackResult) error
	}{
		{opts.pdfPath, "PDF", export.ExportPDF},
		{opts.dxfPath, "DXF", export.ExportDXF},
		{opts.xlsxPath, "XLSX", export.ExportXLSX},
		{opts.labels, "labels", export.ExportLabels},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.fn(e.path, result); err != nil {
			return fmt.Errorf("%s export failed: %w", e.kind, err)
		}
		logger.Info("wrote " + e.kind + " export", "path", e.path)
	}
	return nil
}

// applyOverrides layers explicitly-set flags over the loaded settings.
func applyOverrides(settings *model.PackSettings, opts *packOptions) {
	if opts.binWidth > 0 {
		settings.BinWidth = opts.binWidth
	}
	if opts.binHeight > 0 {
		settings.BinHeight = opts.binHeight
	}
	if opts.algorithm != "" {
		settings.Algorithm = model.Algorithm(opts.algorithm)
	}
	if opts.policy != "" {
		settings.Policy = model.Policy(opts.policy)
	}
	if opts.heuristic != "" {
		settings.Heuristic = opts.heuristic
	}
	if opts.splitRule != "" {
		settings.SplitRule = opts.splitRule
	}
	if opts.noSort {
		settings.Sorting = false
	}
	if opts.noRotate {
		settings.Rotation = false
	}
}

// collectItems gathers items from the optional input file and the --item
// flags, in that order.
func collectItems(args []string, opts *packOptions, logger *charmlog.Logger) ([]*model.Item, error) {
	var items []*model.Item

	if len(args) == 1 {
		var result importer.ImportResult
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".xlsx", ".xls":
			result = importer.ImportXLSX(args[0])
		default:
			result = importer.ImportCSV(args[0])
		}
		for _, w := range result.Warnings {
			logger.Warn(w)
		}
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
		}
		logger.Debug("imported items", "count", len(result.Items), "file", args[0])
		items = append(items, result.Items...)
	}

	for _, spec := range opts.items {
		parsed, err := parseItemSpec(spec)
		if err != nil {
			return nil, err
		}
		items = append(items, parsed...)
	}
	return items, nil
}

// parseItemSpec parses WIDTHxHEIGHT[:QTY], e.g. "600x400" or "600x400:3".
func parseItemSpec(spec string) ([]*model.Item, error) {
	dims, qtyStr, hasQty := strings.Cut(spec, ":")
	wStr, hStr, ok := strings.Cut(dims, "x")
	if !ok {
		return nil, fmt.Errorf("invalid item spec %q, expected WIDTHxHEIGHT[:QTY]", spec)
	}
	w, err := strconv.ParseFloat(wStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid width in item spec %q", spec)
	}
	h, err := strconv.ParseFloat(hStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid height in item spec %q", spec)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in item spec %q", spec)
		}
	}
	items := make([]*model.Item, 0, qty)
	for i := 0; i < qty; i++ {
		items = append(items, model.NewItem(dims, w, h))
	}
	return items, nil
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List placement algorithms, heuristics, and split rules",
		Run: func(cmd *cobra.Command, args []string) {
			for _, algo := range model.Algorithms {
				cmd.Printf("%s\n  heuristics: %s\n", algo, strings.Join(model.Heuristics[algo], ", "))
				if algo == model.AlgorithmGuillotine {
					cmd.Printf("  split rules: %s\n", strings.Join(model.SplitRules, ", "))
				}
			}
			cmd.Printf("policies\n  %s, %s\n", model.PolicyFirstFit, model.PolicyBestFit)
		},
	}
}
