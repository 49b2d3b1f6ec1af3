// Command birdctl loads the bird observation CSV from the command line: it
// prints the display table, checks the file, exports a workbook, and sends
// questions to the model API.
//
// Usage:
//
//	birdctl table --source data/hk_birds.csv
//	birdctl validate --source s3://birds/hk_birds.csv
//	birdctl export --source https://example.org/hk_birds.csv --out birds.xlsx
//	LLM_API_KEY=sk-... birdctl ask "Which birds were seen at Mai Po?"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
