package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/brunotm/elasticsplunk/internal/config"
	"github.com/brunotm/elasticsplunk/internal/format"
)

// searchFlags holds every caller option. A flag only participates in
// settings resolution when the caller actually set it, so stored profiles
// and defaults can fill the rest.
type searchFlags struct {
	eaddr          string
	index          string
	scan           bool
	stype          string
	tsfield        string
	query          string
	fields         string
	limit          int
	includeES      bool
	includeRaw     bool
	useTLS         bool
	verifyCerts    bool
	earliest       string
	latest         string
	output         string
	requestTimeout time.Duration
}

func (f *searchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.eaddr, "eaddr", "", "comma-separated host list or stored profile name (required)")
	fl.StringVar(&f.index, "index", config.DefaultIndex, "index name, pattern or comma-separated list")
	fl.BoolVar(&f.scan, "scan", true, "stream all results through a scroll cursor")
	fl.StringVar(&f.stype, "stype", "", "comma-separated document type filter")
	fl.StringVar(&f.tsfield, "tsfield", config.DefaultTimestampField, "source field holding the event timestamp")
	fl.StringVar(&f.query, "query", config.DefaultQuery, "query string")
	fl.StringVar(&f.fields, "fields", "", "comma-separated field allowlist")
	fl.IntVar(&f.limit, "limit", config.DefaultLimit, "page size in scan mode, result cap otherwise")
	fl.BoolVar(&f.includeES, "include-es", false, "add es_index/es_type/es_id/es_score to each record")
	fl.BoolVar(&f.includeRaw, "include-raw", false, "add the full hit as _raw to each record")
	fl.BoolVar(&f.useTLS, "tls", false, "connect over https")
	fl.BoolVar(&f.verifyCerts, "verify-certs", false, "verify TLS certificates")
	fl.StringVar(&f.earliest, "earliest", config.DefaultEarliest, "window start expression")
	fl.StringVar(&f.latest, "latest", config.DefaultLatest, "window end expression")
	fl.StringVar(&f.output, "output", "ndjson", "output format: ndjson or table")
	fl.DurationVar(&f.requestTimeout, "request-timeout", 0, "per-request timeout, 0 for none")
	_ = cmd.MarkFlagRequired("eaddr")
}

// options converts the flags the caller set into resolver options, leaving
// untouched flags nil.
func (f *searchFlags) options(cmd *cobra.Command) config.Options {
	changed := cmd.Flags().Changed
	opts := config.Options{Address: f.eaddr}

	if changed("index") {
		opts.Index = &f.index
	}
	if changed("scan") {
		opts.Scan = &f.scan
	}
	if changed("stype") {
		opts.SourceTypes = &f.stype
	}
	if changed("tsfield") {
		opts.TimestampField = &f.tsfield
	}
	if changed("query") {
		opts.Query = &f.query
	}
	if changed("fields") {
		opts.Fields = &f.fields
	}
	if changed("limit") {
		opts.Limit = &f.limit
	}
	if changed("include-es") {
		opts.IncludeES = &f.includeES
	}
	if changed("include-raw") {
		opts.IncludeRaw = &f.includeRaw
	}
	if changed("tls") {
		opts.UseTLS = &f.useTLS
	}
	if changed("verify-certs") {
		opts.VerifyCerts = &f.verifyCerts
	}
	if changed("earliest") {
		opts.Earliest = &f.earliest
	}
	if changed("latest") {
		opts.Latest = &f.latest
	}
	if changed("request-timeout") {
		opts.RequestTimeout = &f.requestTimeout
	}
	return opts
}

// hostRange reads the time range the invoking environment resolved for us,
// if any, from the ESSEARCH_ env namespace.
func hostRange() (config.HostRange, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider("ESSEARCH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "ESSEARCH_")), "_", ".")
	}), nil)
	if err != nil {
		return config.HostRange{}, fmt.Errorf("load environment: %w", err)
	}

	var hr config.HostRange
	if k.Exists("time.earliest") {
		v, err := strconv.ParseInt(k.String("time.earliest"), 10, 64)
		if err != nil {
			return config.HostRange{}, fmt.Errorf("parse ESSEARCH_TIME_EARLIEST: %w", err)
		}
		hr.Earliest = &v
	}
	if k.Exists("time.latest") {
		v, err := strconv.ParseInt(k.String("time.latest"), 10, 64)
		if err != nil {
			return config.HostRange{}, fmt.Errorf("parse ESSEARCH_TIME_LATEST: %w", err)
		}
		hr.Latest = &v
	}
	return hr, nil
}

// writeRecords renders the stream to w in the requested output format.
func writeRecords(w io.Writer, output string, s format.RecordStream) (int, error) {
	switch output {
	case "ndjson":
		return format.WriteNDJSON(w, s)
	case "table":
		return format.WriteTable(w, s)
	default:
		return 0, fmt.Errorf("unknown output format %q", output)
	}
}
