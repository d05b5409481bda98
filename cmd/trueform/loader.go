package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trueform/core/internal/config"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/normalize"
	"github.com/trueform/core/wire"
)

// loadedPart bundles the decoded document, the first part it contains,
// and the resolved build context a command needs to proceed.
type loadedPart struct {
	Doc     *ir.IntentDocument
	Part    ir.IntentPart
	Context ir.BuildContext
	Cfg     config.Config
}

func loadDocument(path string) (*ir.IntentDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading part document %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := wire.DecodeYAML(b)
		return doc, errors.Wrapf(err, "decoding YAML document %s", path)
	default:
		doc, err := wire.DecodeJSON(b)
		return doc, errors.Wrapf(err, "decoding JSON document %s", path)
	}
}

func loadPart(path, configPath string) (*loadedPart, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	if len(doc.Parts) == 0 {
		return nil, errors.Errorf("document %s declares no parts", path)
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "loading config %s", configPath)
		}
	}

	buildCtx := doc.Context
	if buildCtx.Kernel.Name == "" {
		buildCtx = cfg.BuildContext(ir.KernelInfo{Name: "fake", Version: "dev"})
	}

	return &loadedPart{Doc: doc, Part: doc.Parts[0], Context: buildCtx, Cfg: cfg}, nil
}

func normalizePart(lp *loadedPart) (*normalize.NormalizedPart, error) {
	return normalize.Normalize(lp.Part, nil, normalize.Options{StagedFeatures: lp.Cfg.Policy()})
}
