package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
	"github.com/ehr/fhirview/internal/platform/narrative"
)

const (
	formatJSON = "json"
	formatHTML = "html"
)

type normalizeOptions struct {
	version      string
	resourceType string
	format       string
	ndjson       bool
}

func normalizeCmd() *cobra.Command {
	var opts normalizeOptions
	cmd := &cobra.Command{
		Use:   "normalize [flags] FILE...",
		Short: "Normalize resources or Bundles into canonical records",
		Long: `Reads each FILE ("-" for stdin) holding a FHIR resource or a Bundle and
prints one canonical record per resource: a JSON object per line, or an XHTML
narrative per line with --format html.

Files ending in .ndjson, or any input with --ndjson, are read as Bulk Data
exports: one resource or Bundle per line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatJSON && opts.format != formatHTML {
				return fmt.Errorf("unknown format %q (want json or html)", opts.format)
			}
			a, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return a.normalizeFiles(cmd.InOrStdin(), cmd.OutOrStdout(), opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.version, "fhir-version", "", "FHIR version of the input: dstu2, stu3, r4 or a release number (default FHIR_VERSION)")
	cmd.Flags().StringVar(&opts.resourceType, "type", "", "resource type; read from the input when empty, and used to filter Bundle entries")
	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "output format: json or html")
	cmd.Flags().BoolVar(&opts.ndjson, "ndjson", false, "read every input as NDJSON")
	return cmd
}

// input is one resource read from a file or a Bundle entry.
type input struct {
	source       string
	resourceType string
	resource     map[string]interface{}
}

func (a *app) normalizeFiles(stdin io.Reader, out io.Writer, opts normalizeOptions, names []string) (err error) {
	version := a.cfg.DefaultVersion()
	if opts.version != "" {
		version = fhir.ParseVersion(opts.version)
	}
	gen := narrative.NewGenerator()
	w := fhir.NewNDJSONWriter(out)
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("write output: %w", ferr)
		}
	}()

	failed := 0
	for _, name := range names {
		data, err := readSource(stdin, name)
		if err != nil {
			a.logger.Error().Err(err).Str("source", name).Msg("read failed")
			failed++
			continue
		}
		var inputs []input
		if opts.ndjson || strings.HasSuffix(name, ".ndjson") {
			inputs, err = readNDJSONInputs(name, data, opts.resourceType)
		} else {
			inputs, err = readInputs(name, data, opts.resourceType)
		}
		if err != nil {
			a.logger.Error().Err(err).Str("source", name).Msg("parse failed")
			failed++
			continue
		}

		for _, in := range inputs {
			rec, err := a.registry.Normalize(in.resourceType, version, in.resource, normalize.WithMetadata(a.metadata))
			if err != nil {
				a.logger.Error().Err(err).
					Str("source", in.source).
					Str("resource_type", in.resourceType).
					Str("fhir_version", version.String()).
					Msg("normalize failed")
				failed++
				continue
			}
			if opts.format == formatHTML {
				_, err = fmt.Fprintln(out, gen.Div(rec))
			} else {
				err = w.Encode(rec)
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			a.logger.Debug().
				Str("source", in.source).
				Str("resource_type", in.resourceType).
				Str("fhir_version", version.String()).
				Msg("normalized")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d input(s) could not be normalized", failed)
	}
	return nil
}

func readSource(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// readInputs splits a document into the resources to normalize. A Bundle
// yields its entry resources; anything else is a single resource whose type
// is resourceType, or its own resourceType when that is empty. For Bundles a
// non-empty resourceType keeps only entries of that type.
func readInputs(name string, data []byte, resourceType string) ([]input, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: invalid JSON", name)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%s: expected a JSON object", name)
	}

	if root.Get("resourceType").String() != "Bundle" {
		rt := resourceType
		if rt == "" {
			rt = root.Get("resourceType").String()
		}
		if rt == "" {
			return nil, fmt.Errorf("%s: no resourceType; pass --type", name)
		}
		res, err := decodeObject(root.Raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return []input{{source: name, resourceType: rt, resource: res}}, nil
	}

	// Sources are named by the position in Bundle.entry, counting entries
	// without a resource, so they match the server's entry indexes.
	var (
		out    []input
		decErr error
		i      = -1
	)
	root.Get("entry").ForEach(func(_, e gjson.Result) bool {
		i++
		entry := e.Get("resource")
		if !entry.IsObject() {
			return true
		}
		rt := entry.Get("resourceType").String()
		if resourceType != "" && rt != resourceType {
			return true
		}
		res, err := decodeObject(entry.Raw)
		if err != nil {
			decErr = fmt.Errorf("%s entry %d: %w", name, i, err)
			return false
		}
		out = append(out, input{
			source:       fmt.Sprintf("%s#%d", name, i),
			resourceType: rt,
			resource:     res,
		})
		return true
	})
	if decErr != nil {
		return nil, decErr
	}
	return out, nil
}

// readNDJSONInputs applies readInputs to every line of an NDJSON document.
// Lines are named FILE:LINE.
func readNDJSONInputs(name string, data []byte, resourceType string) ([]input, error) {
	var out []input
	err := fhir.ScanNDJSON(bytes.NewReader(data), func(line int, doc []byte) error {
		inputs, err := readInputs(fmt.Sprintf("%s:%d", name, line), doc, resourceType)
		if err != nil {
			return err
		}
		out = append(out, inputs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeObject(raw string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	return m, nil
}
