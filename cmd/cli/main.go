// The linky CLI migrates the link collection between storage backends:
// export writes the full ordered sequence as JSON to stdout, import
// appends records from a JSON file, skipping short codes that already
// exist.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/adapters/repository"
	"github.com/linkyapp/linky/pkg/config"
	"github.com/linkyapp/linky/pkg/core/domain"
	"github.com/linkyapp/linky/pkg/ports"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	repo, err := repository.NewLinkRepository(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open link store")
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		doExport(repo, log)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(repo, *importFile, log)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(repo ports.LinkRepository, log zerolog.Logger) {
	links, err := repo.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(links); err != nil {
		log.Fatal().Err(err).Msg("encode failed")
	}
}

func doImport(repo ports.LinkRepository, filename string, log zerolog.Logger) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open file")
	}
	defer file.Close()

	var links []domain.Link
	if err := json.NewDecoder(file).Decode(&links); err != nil {
		log.Fatal().Err(err).Msg("decode failed")
	}

	ctx := context.Background()
	count := 0
	// The file is newest first; walk it backwards so Append's prepend
	// ordering reproduces the original sequence.
	for i := len(links) - 1; i >= 0; i-- {
		l := links[i]
		existing, _ := repo.GetByShortCode(ctx, l.ShortCode)
		if existing != nil {
			log.Info().Str("short_code", l.ShortCode).Msg("skipping existing code")
			continue
		}

		if err := repo.Append(ctx, l); err != nil {
			log.Error().Err(err).Str("short_code", l.ShortCode).Msg("failed to import")
			continue
		}
		count++
	}
	log.Info().Int("count", count).Msg("import complete")
}
