package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/unixpickle/textsign"
)

func main() {
	def := textsign.DefaultConfig()

	text := flag.String("text", "", "sign text, with \\n separating lines")
	projectPath := flag.String("project", "", "load text and settings from a project file")
	savePath := flag.String("save", "", "save the text and settings to a project file")
	outPath := flag.String("out", "", "output path (.stl or .3mf)")
	fontPath := flag.String("font", "", "path to a TTF font file (defaults to the Go fonts)")
	fontName := flag.String("font-name", def.Font.Name, "font family name")
	fontSize := flag.Float64("size", def.Font.Size, "font size in points")
	bold := flag.Bool("bold", def.Font.Style&textsign.StyleBold != 0, "use the bold style")
	italic := flag.Bool("italic", def.Font.Style&textsign.StyleItalic != 0, "use the italic style")
	align := flag.String("align", def.Align.String(), "line alignment: LEFT, CENTER or RIGHT")
	baseHeight := flag.Float64("base-height", def.BaseHeight, "base plate height in mm")
	baseMargin := flag.Float64("base-margin", def.BaseMargin, "base plate margin in mm")
	letterHeight := flag.Float64("letter-height", def.LetterHeight, "letter height in mm")
	bevelHeight := flag.Float64("bevel-height", def.BevelHeight, "bevel height in mm")
	scale := flag.Float64("scale", def.Scale, "millimeters per font unit")
	kerning := flag.Bool("kerning", true, "enable kerning")
	parts := flag.Bool("parts", false, "write the base and the letters as separate 3MF objects")
	colors := flag.Bool("colors", false, "add per-height colors to 3MF output")
	uuids := flag.Bool("uuids", false, "add production UUIDs to 3MF output")
	flag.Parse()

	if (*text == "" && *projectPath == "") || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "", 0)

	cfg := def
	cfg.Font = textsign.FontDescriptor{Name: *fontName, Size: *fontSize}
	if *bold {
		cfg.Font.Style |= textsign.StyleBold
	}
	if *italic {
		cfg.Font.Style |= textsign.StyleItalic
	}
	alignment, err := textsign.ParseAlignment(*align)
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	cfg.Align = alignment
	cfg.BaseHeight = *baseHeight
	cfg.BaseMargin = *baseMargin
	cfg.LetterHeight = *letterHeight
	cfg.BevelHeight = *bevelHeight
	cfg.Scale = *scale
	cfg.Parts = *parts
	cfg.Colors = *colors
	cfg.UUIDs = *uuids

	signText := strings.ReplaceAll(*text, `\n`, "\n")
	if *projectPath != "" {
		project, err := textsign.LoadSign(*projectPath, logger)
		if err != nil {
			log.Fatalf("load project: %v", err)
		}
		cfg = project.Config(cfg)
		if *text == "" {
			signText = project.Text
		}
	}

	format, err := textsign.FormatForPath(*outPath)
	if err != nil {
		log.Fatalf("output path: %v", err)
	}

	fonts := textsign.NewFontLibrary()
	fonts.Kerning = *kerning
	fonts.Logger = logger
	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("read font: %v", err)
		}
		if err := fonts.RegisterTTF(cfg.Font.Name, cfg.Font.Style, data); err != nil {
			log.Fatalf("register font: %v", err)
		}
	}

	gen := &textsign.Generator{Outlines: fonts, Logger: logger}
	report, err := gen.GenerateFile(signText, *outPath, format, cfg)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	if *savePath != "" {
		if err := textsign.SaveSign(*savePath, textsign.NewSign(signText, cfg)); err != nil {
			log.Fatalf("save project: %v", err)
		}
	}

	fmt.Printf("wrote %s: %d triangles, %d vertices, %d regions (%d holes)\n",
		*outPath, report.Triangles, report.Vertices, report.Regions, report.Holes)
	if report.Orphans > 0 || report.Fallbacks > 0 || report.Skipped > 0 || report.OpenEdges > 0 {
		fmt.Printf("warnings: %d orphan holes, %d fallbacks, %d skipped regions, %d open edges\n",
			report.Orphans, report.Fallbacks, report.Skipped, report.OpenEdges)
	}
}
