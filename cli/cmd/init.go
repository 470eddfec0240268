package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/kdn/log"
	"github.com/ardnew/kdn/pkg"
	"github.com/ardnew/kdn/profile"
)

// defaultConfigIndent is the indent width of the generated YAML.
const defaultConfigIndent = 2

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(errors.New("command context unavailable"))
	}

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || path == "" {
		return ErrWriteConfig.Wrap(errors.New("configuration path undefined"))
	}

	data, err := yaml.MarshalContext(ctx, configDocument(ktx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if i.Force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	if err := os.MkdirAll(filepath.Dir(path), pkg.DirMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	file, err := os.OpenFile(path, flag, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return ErrWriteConfig.
			With(slog.String("file", path), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ErrWriteConfig.With(slog.String("file", path)).Wrap(cerr)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.Bool("force", i.Force))

	if g.Verbose {
		fmt.Fprintf(streamsFrom(ctx).Err, "wrote %s\n", path)
	}

	return nil
}

// configDocument collects the application flags into YAML, nesting grouped
// flags under their group key: --log-level becomes log: {level: ...}.
// Help, version, and profiling flags are left out, as are flags without a
// value.
func configDocument(ktx *kong.Context) yaml.MapSlice {
	var (
		doc    yaml.MapSlice
		groups = make(map[string]int)
	)

	for _, flag := range ktx.Model.Flags {
		if skipConfigFlag(flag) {
			continue
		}

		value := ktx.FlagValue(flag)
		if isEmptyValue(value) {
			continue
		}

		if flag.Group == nil || !strings.HasPrefix(flag.Name, flag.Group.Key+"-") {
			doc = append(doc, yaml.MapItem{Key: flag.Name, Value: value})

			continue
		}

		key := flag.Group.Key
		item := yaml.MapItem{Key: strings.TrimPrefix(flag.Name, key+"-"), Value: value}

		idx, ok := groups[key]
		if !ok {
			idx = len(doc)
			groups[key] = idx
			doc = append(doc, yaml.MapItem{Key: key, Value: yaml.MapSlice{}})
		}

		sub, _ := doc[idx].Value.(yaml.MapSlice)
		doc[idx].Value = append(sub, item)
	}

	return doc
}

func skipConfigFlag(flag *kong.Flag) bool {
	switch {
	case flag.Hidden, flag.Name == "help", flag.Name == "version":
		return true
	case flag.Group != nil && flag.Group.Key == profile.Tag:
		return true
	}

	return false
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}

	return false
}
