package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/classifier"
	"github.com/spacesedan/reviewlens/internal/logging"
	"github.com/spacesedan/reviewlens/internal/render"
)

// One-shot classification: text from the arguments or stdin, the same two
// output lines the web page shows.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	text := strings.Join(os.Args[1:], " ")
	if strings.TrimSpace(text) == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			slog.Error("[Classify] Failed to read stdin",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		text = string(raw)
	}

	ctx := context.Background()

	clf, cleanup, err := classifier.FromEnv(ctx)
	if err != nil {
		slog.Error("[Classify] Failed to initialize classifier",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	pred, err := clf.Classify(ctx, text)
	if err != nil {
		slog.Error("[Classify] Classification failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(render.SentimentLine(pred.Label))
	fmt.Println(render.ConfidenceLine(pred.Score))
}
