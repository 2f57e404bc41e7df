package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	meme "github.com/gcslaoli/meme-composer-go"
)

// go run main.go -in cat.jpg -top "one does not simply" -bottom "write a meme generator"
// go run main.go -in cat.jpg -bottom "such caption" -out cat_meme.png -preview cat_preview.png
// go run main.go -inbase64 "data:image/png;base64,..." -bottom "wow" -outbase64

func main() {
	input := flag.String("in", "", "Path to the source image (png/jpg/gif/webp)")
	inputBase64 := flag.String("inbase64", "", "Base64 image input (optionally data URL)")
	top := flag.String("top", "", "Top caption")
	bottom := flag.String("bottom", "", "Bottom caption (required)")
	viewport := flag.Int("viewport", meme.DefaultViewportWidth, "Viewport width used for presentation sizing")
	output := flag.String("out", "", "Output path (defaults to <name>_meme.png)")
	outputBase64 := flag.Bool("outbase64", false, "Write the download data URL to stdout instead of a file")
	preview := flag.String("preview", "", "Also write the image at its presentation size to this path")
	stale := flag.Bool("stale-presentation", false, "Size the presentation from the previous surface, like the browser page")
	verbose := flag.Bool("v", false, "Log render details to stderr")
	flag.Parse()

	if *verbose {
		meme.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var (
		file *meme.File
		err  error
	)

	if *inputBase64 != "" {
		file, err = meme.FileFromBase64("base64", *inputBase64)
	} else if *input != "" {
		file, err = meme.ReadFile(*input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	composer := meme.NewComposer(
		meme.WithViewportWidth(*viewport),
		meme.WithStalePresentation(*stale),
	)
	composer.SetTopText(ctx, *top)
	composer.SetBottomText(ctx, *bottom)

	res := composer.SelectFile(ctx, file).Wait()
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", res.Err)
		os.Exit(1)
	}

	download, validation, err := composer.Export()
	if err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}
	if validation != meme.ValidationOK {
		fmt.Fprintf(os.Stderr, "cannot export: %s\n", validation)
		flag.Usage()
		os.Exit(2)
	}

	if *preview != "" {
		if err := writePNG(*preview, composer); err != nil {
			fmt.Fprintf(os.Stderr, "write preview: %v\n", err)
			os.Exit(1)
		}
	}

	if *outputBase64 {
		fmt.Println(download.Href)
		fmt.Fprintf(os.Stderr, "Rendered %s %dx%d (display %.0fx%.0f) -> data URL\n",
			file.Name, res.Width, res.Height, res.Presentation.Width, res.Presentation.Height)
		return
	}

	outPath := *output
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(*input), download.Filename)
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := meme.EncodePNG(outFile, composer.Image()); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendered %s %dx%d (display %.0fx%.0f) -> %s\n",
		file.Name, res.Width, res.Height, res.Presentation.Width, res.Presentation.Height, outPath)
}

func writePNG(path string, composer *meme.Composer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return meme.EncodePNG(f, composer.Preview())
}
