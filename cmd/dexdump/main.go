// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command dexdump prints the structure of a DEX file: header fields,
// the map list, the string pool, and per-class field/method listings.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/trace"

	dex "github.com/saferwall/dex"
	"github.com/saferwall/dex/internal/tracing"
)

var (
	wantHeader   bool
	wantMap      bool
	wantStrings  bool
	wantClasses  bool
	wantAll      bool
	fast         bool
	otlpEndpoint string

	tracerProvider trace.TracerProvider
)

var section = color.New(color.FgYellow, color.Bold).SprintFunc()
var errColor = color.New(color.FgRed).SprintFunc()

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func dumpOne(path string) {
	f, err := dex.Open(path, &dex.Options{Fast: fast, TracerProvider: tracerProvider})
	if err != nil {
		fmt.Fprintln(os.Stderr, errColor(fmt.Sprintf("%s: open: %v", path, err)))
		return
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, errColor(fmt.Sprintf("%s: parse: %v", path, err)))
		return
	}

	fmt.Println(section(path))

	if wantHeader || wantAll {
		dumpHeader(f)
	}
	if wantMap || wantAll {
		dumpMapList(f)
	}
	if wantStrings || wantAll {
		dumpStrings(f)
	}
	if wantClasses || wantAll {
		dumpClasses(f)
	}
}

func dumpHeader(f *dex.File) {
	fmt.Println(section("Header"))
	w := tabwriter.NewWriter(os.Stdout, 1, 1, 3, ' ', tabwriter.AlignRight)
	h := f.Header
	if ver, err := h.Version(); err == nil {
		fmt.Fprintf(w, "Version:\t %s\n", ver)
	}
	fmt.Fprintf(w, "Checksum:\t 0x%08x\n", h.Checksum)
	fmt.Fprintf(w, "File Size:\t %d\n", h.FileSize)
	fmt.Fprintf(w, "String IDs:\t %d @ 0x%x\n", h.StringIDsSize, h.StringIDsOff)
	fmt.Fprintf(w, "Type IDs:\t %d @ 0x%x\n", h.TypeIDsSize, h.TypeIDsOff)
	fmt.Fprintf(w, "Proto IDs:\t %d @ 0x%x\n", h.ProtoIDsSize, h.ProtoIDsOff)
	fmt.Fprintf(w, "Field IDs:\t %d @ 0x%x\n", h.FieldIDsSize, h.FieldIDsOff)
	fmt.Fprintf(w, "Method IDs:\t %d @ 0x%x\n", h.MethodIDsSize, h.MethodIDsOff)
	fmt.Fprintf(w, "Class Defs:\t %d @ 0x%x\n", h.ClassDefsSize, h.ClassDefsOff)
	w.Flush()
}

func dumpMapList(f *dex.File) {
	fmt.Println(section("Map List"))
	w := tabwriter.NewWriter(os.Stdout, 1, 1, 3, ' ', tabwriter.AlignRight)
	for _, item := range f.MapList.Items {
		fmt.Fprintf(w, "0x%04x\t size=%d\t off=0x%x\n", item.ItemType, item.Size, item.Offset)
	}
	w.Flush()
}

func dumpStrings(f *dex.File) {
	fmt.Println(section("Strings"))
	for i := uint32(0); i < f.Header.StringIDsSize; i++ {
		s, err := f.StringAt(i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errColor(fmt.Sprintf("string %d: %v", i, err)))
			continue
		}
		fmt.Printf("%6d  %s\n", i, s)
	}
}

func dumpClasses(f *dex.File) {
	fmt.Println(section("Classes"))
	classes, err := f.Classes().All()
	if err != nil {
		fmt.Fprintln(os.Stderr, errColor(fmt.Sprintf("classes: %v", err)))
		return
	}
	for _, c := range classes {
		desc, err := c.Descriptor()
		if err != nil {
			fmt.Fprintln(os.Stderr, errColor(fmt.Sprintf("class descriptor: %v", err)))
			continue
		}
		fmt.Printf("%s\n", desc)

		fields, err := c.Fields().All()
		if err == nil {
			for _, fld := range fields {
				name, _ := fld.Name()
				typ, _ := fld.Type()
				fmt.Printf("  %s %s\n", typ, name)
			}
		}

		methods, err := c.Methods().All()
		if err == nil {
			for _, m := range methods {
				if sig, ok, err := m.Signature(); err == nil && ok {
					fmt.Printf("  %s %s\n", m.Name(), sig)
				} else {
					fmt.Printf("  %s\n", m.Name())
				}
			}
		}
	}
}

// setupTracing builds an OTLP/HTTP exporter against endpoint and wraps
// it in a TracerProvider, so --otlp-endpoint turns each dumped file's
// Parse phases into exportable spans. The returned func flushes and
// shuts the provider down; callers should defer it.
func setupTracing(endpoint string) (trace.TracerProvider, func(), error) {
	ctx := context.Background()
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, nil, err
	}
	tp, err := tracing.NewProvider(exp, "dexdump")
	if err != nil {
		return nil, nil, err
	}
	shutdown := func() { _ = tp.Shutdown(ctx) }
	return tp, shutdown, nil
}

func walk(path string) {
	if !isDirectory(path) {
		dumpOne(path)
		return
	}
	filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			dumpOne(p)
		}
		return nil
	})
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "dexdump",
		Short: "A DEX file structure dumper",
		Long:  "Prints the header, map list, string pool, and classes of an Android DEX file.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("dexdump 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <file-or-dir>...",
		Short: "Dump one or more DEX files",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if otlpEndpoint != "" {
				tp, shutdown, err := setupTracing(otlpEndpoint)
				if err != nil {
					fmt.Fprintln(os.Stderr, errColor(fmt.Sprintf("tracing: %v", err)))
					os.Exit(1)
				}
				tracerProvider = tp
				defer shutdown()
			}
			for _, path := range args {
				walk(path)
			}
		},
	}
	dumpCmd.Flags().BoolVar(&wantHeader, "header", false, "dump the file header")
	dumpCmd.Flags().BoolVar(&wantMap, "map", false, "dump the map list")
	dumpCmd.Flags().BoolVar(&wantStrings, "strings", false, "dump the string pool")
	dumpCmd.Flags().BoolVar(&wantClasses, "classes", false, "dump classes, fields, and methods")
	dumpCmd.Flags().BoolVar(&wantAll, "all", false, "dump everything")
	dumpCmd.Flags().BoolVar(&fast, "fast", false, "skip the per-class validation walk")
	dumpCmd.Flags().StringVar(&otlpEndpoint, "otlp-endpoint", "", "export parse-phase spans to this OTLP/HTTP collector endpoint")

	rootCmd.AddCommand(versionCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
