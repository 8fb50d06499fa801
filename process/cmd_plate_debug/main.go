package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/disintegration/imaging"

	"platereader/pkg/config"
	"platereader/pkg/logging"
	"platereader/pkg/plate"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	f := flag.String("file", "", "plate image to read")
	profile := flag.String("profile", string(cfg.Profile), "generic or indian")
	dump := flag.String("dump", "", "save the preprocessed image here")
	flag.Parse()
	if *f == "" {
		logging.Fatalf("-file required")
	}
	p, err := plate.ParseProfile(*profile)
	if err != nil {
		logging.Fatalf("%v", err)
	}
	logging.SetLevel(logging.LevelDebug)

	img, err := plate.LoadImage(*f)
	if err != nil {
		logging.Fatalf("%v", err)
	}
	bin, err := plate.Preprocess(context.Background(), img, p.Equalize())
	if err != nil {
		logging.Fatalf("preprocess: %v", err)
	}
	if *dump != "" {
		if err := imaging.Save(bin, *dump); err != nil {
			logging.Fatalf("save preprocessed: %v", err)
		}
		fmt.Printf("preprocessed image saved to %s\n", *dump)
	}

	engine := plate.NewTesseractEngine(cfg.Language, cfg.GPU)
	frags, err := engine.Recognize(context.Background(), bin, p.Detail())
	if err != nil {
		logging.Fatalf("recognize: %v", err)
	}
	for i, fr := range frags {
		fmt.Printf("fragment %d text=%q conf=%.3f left=%d\n", i, fr.Text, fr.Confidence, fr.Left())
	}

	res := plate.NewReaderWith(p, engine).ReadImage(context.Background(), *f, img)
	if res.HasConfidence {
		fmt.Printf("text=%q conf=%s accepted=%v\n", res.Text, res.ConfidenceString(), res.Accepted)
	} else {
		fmt.Printf("text=%q accepted=%v\n", res.Text, res.Accepted)
	}
}
