// Package app builds the components shared by the server and the
// command-line tools from configuration.
package app

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/jengzang/locstore-backend-go/internal/config"
	"github.com/jengzang/locstore-backend-go/internal/identity"
	"github.com/jengzang/locstore-backend-go/internal/lookup"
	"github.com/jengzang/locstore-backend-go/internal/parser"
	"github.com/jengzang/locstore-backend-go/internal/repository"
)

// TableSource is a fallback provider of the lookup table
type TableSource interface {
	Table(ctx context.Context) (*lookup.Table, error)
}

// LoadTable reads the lookup table from S3 when a bucket is set, else
// from the local file when it exists, else from fallback.
func LoadTable(ctx context.Context, cfg *config.Config, fallback TableSource) (*lookup.Table, error) {
	if cfg.UseS3Lookup() {
		client, err := lookup.NewS3Client(ctx, lookup.S3Source{
			Bucket:    cfg.Lookup.S3Bucket,
			Key:       cfg.Lookup.S3Key,
			Region:    cfg.Lookup.S3Region,
			Endpoint:  cfg.Lookup.S3Endpoint,
			AccessKey: cfg.Lookup.S3AccessKey,
			SecretKey: cfg.Lookup.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return lookup.FetchS3(ctx, client, cfg.Lookup.S3Bucket, cfg.Lookup.S3Key)
	}

	if cfg.Lookup.Path != "" {
		if _, err := os.Stat(cfg.Lookup.Path); err == nil {
			return lookup.LoadFile(cfg.Lookup.Path)
		}
	}
	if fallback == nil {
		return nil, fmt.Errorf("no lookup table at %q", cfg.Lookup.Path)
	}
	return fallback.Table(ctx)
}

// ParserOptions compiles the configured quality rules
func ParserOptions(cfg *config.Config) (parser.Options, error) {
	opts := parser.DefaultOptions()
	re, err := regexp.Compile(cfg.Parser.Legacy3GPattern)
	if err != nil {
		return opts, fmt.Errorf("invalid legacy 3G pattern: %w", err)
	}
	opts.Legacy3G = re
	opts.StickySubtype = cfg.Parser.StickySubtype
	opts.AnchorSubtype = cfg.Parser.AnchorSubtype
	return opts, nil
}

// Normalizer builds the subscriber id normalizer
func Normalizer(cfg *config.Config) *identity.Normalizer {
	return identity.NewNormalizer(cfg.Identity.Prefix, cfg.Identity.FullLength, cfg.Identity.HomeCodes)
}

var _ TableSource = (*repository.CellRepository)(nil)
