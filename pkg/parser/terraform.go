package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/sirupsen/logrus"

	"github.com/user/terrasight/pkg/engine"
)

var log = logrus.WithField("component", "parser")

// ParseContent extracts resource declarations from one HCL document.
// virtualPath is the file label recorded on every record (uploads have no
// real path).
func ParseContent(content, virtualPath string) ([]engine.ResourceRecord, error) {
	p := hclparse.NewParser()
	file, diags := p.ParseHCL([]byte(content), virtualPath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", virtualPath, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parse %s: unexpected body type", virtualPath)
	}
	return extractResources(body, []byte(content), virtualPath), nil
}

// ParseFile parses a single .tf file.
func ParseFile(path string) ([]engine.ResourceRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseContent(string(content), path)
}

// ParseDirectory walks a directory tree and parses every .tf file in sorted
// order. Per-file parse errors are logged and skipped so one broken file does
// not hide the rest.
func ParseDirectory(root string) ([]engine.ResourceRecord, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".tf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var records []engine.ResourceRecord
	for _, path := range paths {
		recs, err := ParseFile(path)
		if err != nil {
			log.WithField("file", path).Warnf("skipping unparseable file: %v", err)
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

// ParseZip extracts resources from every .tf entry in a zipped folder.
func ParseZip(data []byte) ([]engine.ResourceRecord, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var records []engine.ResourceRecord
	for _, entry := range archive.File {
		if !strings.HasSuffix(entry.Name, ".tf") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in zip: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s in zip: %w", entry.Name, err)
		}
		recs, err := ParseContent(string(content), entry.Name)
		if err != nil {
			log.WithField("file", entry.Name).Warnf("skipping unparseable zip entry: %v", err)
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

func extractResources(body *hclsyntax.Body, src []byte, path string) []engine.ResourceRecord {
	var records []engine.ResourceRecord
	for _, blk := range body.Blocks {
		if blk.Type != "resource" || len(blk.Labels) < 2 {
			continue
		}
		records = append(records, engine.ResourceRecord{
			File:         path,
			ResourceType: blk.Labels[0],
			ResourceName: blk.Labels[1],
			Config:       blockConfig(blk.Body, src),
		})
	}
	return records
}

// blockConfig flattens a block body into a config map: attributes carry their
// statically evaluated values (dynamic expressions keep their raw source
// text), and nested blocks append maps under the block type key.
func blockConfig(body *hclsyntax.Body, src []byte) map[string]any {
	cfg := make(map[string]any)
	for name, attr := range body.Attributes {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() || !v.IsWhollyKnown() {
			cfg[name] = rawSource(src, attr.Expr.Range())
			continue
		}
		cfg[name] = ctyToGo(v)
	}
	for _, nested := range body.Blocks {
		child := blockConfig(nested.Body, src)
		existing, _ := cfg[nested.Type].([]any)
		cfg[nested.Type] = append(existing, any(child))
	}
	return cfg
}

func rawSource(src []byte, rng hcl.Range) string {
	if rng.Start.Byte < 0 || rng.End.Byte > len(src) || rng.Start.Byte > rng.End.Byte {
		return ""
	}
	return string(src[rng.Start.Byte:rng.End.Byte])
}

// Inventory is the resource listing returned by the parse command.
type Inventory struct {
	ResourceTypes []string                `json:"resource_types"`
	ResourceCount int                     `json:"resource_count"`
	Resources     []engine.ResourceRecord `json:"resources"`
}

// BuildInventory summarizes parsed resources: sorted distinct types plus the
// full record list.
func BuildInventory(resources []engine.ResourceRecord) Inventory {
	seen := make(map[string]bool)
	var types []string
	for _, r := range resources {
		if !seen[r.ResourceType] {
			seen[r.ResourceType] = true
			types = append(types, r.ResourceType)
		}
	}
	sort.Strings(types)
	return Inventory{
		ResourceTypes: types,
		ResourceCount: len(resources),
		Resources:     resources,
	}
}
