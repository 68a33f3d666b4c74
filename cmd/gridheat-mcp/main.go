package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ironsheep/gridheat-mcp/internal/grid"
	"github.com/ironsheep/gridheat-mcp/internal/heatmap"
	"github.com/ironsheep/gridheat-mcp/internal/imaging"
	"github.com/ironsheep/gridheat-mcp/internal/palette"
	"github.com/ironsheep/gridheat-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// swatchCells is the number of colour samples printed per colormap.
const swatchCells = 32

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("gridheat-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "palettes":
			printPalettes()
			return
		case "render":
			if err := render(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "render: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("GRIDHEAT_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Gridheat MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if Version != "dev" {
		server.Version = Version
	}
	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("gridheat-mcp - MCP server for gridded scalar field heat maps")
	fmt.Println()
	fmt.Println("Usage: gridheat-mcp [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  palettes                               Show the available colormaps")
	fmt.Println("  render <grid.asc> <out.png> [colormap] Render an ESRI ASCII grid to PNG")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  GRIDHEAT_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  GRIDHEAT_MAX_CELLS=N        Largest grid or image in cells (default 16777216)")
	fmt.Println()
	fmt.Println("With no command the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// printPalettes prints each colormap name with a row of colour swatches.
func printPalettes() {
	names := palette.Names()
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	nameStyle := lipgloss.NewStyle().Width(width + 2).Bold(true)
	for _, name := range names {
		cmap, _ := palette.Lookup(name)

		var row strings.Builder
		for i := 0; i < swatchCells; i++ {
			c := cmap(uint8(i * 255 / (swatchCells - 1)))
			hex := fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
			row.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(" "))
		}

		label := name
		if name == palette.DefaultColormap {
			label += "*"
		}
		fmt.Println(nameStyle.Render(label) + row.String())
	}
	fmt.Println()
	fmt.Println("* default")
}

// render draws an ESRI ASCII grid with an auto-fitted palette.
func render(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: gridheat-mcp render <grid.asc> <out.png> [colormap]")
	}

	data, err := grid.LoadASCIIGrid(args[0])
	if err != nil {
		return err
	}

	opts := palette.DefaultOptions()
	opts.AutoFit = true
	if len(args) > 2 {
		opts = opts.WithColormap(args[2])
	}

	raster, engine, err := heatmap.Render(data, opts, heatmap.Options{})
	if err != nil {
		return err
	}
	if err := imaging.SavePNG(raster.Image(), args[1]); err != nil {
		return err
	}

	o := engine.Options()
	fmt.Printf("%s: %dx%d, %s over [%g, %g], %d missing cells\n",
		args[1], raster.Width, raster.Height, engine.ColormapName(), o.Lower, o.Upper, raster.Anomalies)
	return nil
}
