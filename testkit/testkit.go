package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/sitetheory"
)

// Env is a deterministic local environment for synthesizing sites in tests.
type Env struct {
	IDs *ManualIDGenerator

	// Context is passed to every App, e.g. cached hosted zone lookups.
	Context map[string]any
}

func New() *Env {
	return &Env{IDs: NewManualIDGenerator(), Context: map[string]any{}}
}

// App returns a CDK app writing its cloud assembly under a test temp dir.
func (e *Env) App(t testing.TB) awscdk.App {
	t.Helper()
	ctx := make(map[string]any, len(e.Context))
	for k, v := range e.Context {
		ctx[k] = v
	}
	return awscdk.NewApp(&awscdk.AppProps{
		Outdir:  jsii.String(t.TempDir()),
		Context: &ctx,
	})
}

// WithHostedZone caches a hosted zone lookup so HostedZone.fromLookup resolves
// without calling AWS.
func (e *Env) WithHostedZone(account, region, zoneName, zoneID string) *Env {
	key := fmt.Sprintf("hosted-zone:account=%s:domainName=%s:region=%s", account, zoneName, region)
	e.Context[key] = map[string]any{
		"Id":   "/hostedzone/" + zoneID,
		"Name": zoneName + ".",
	}
	return e
}

// SiteAssets writes files (relative slash paths to contents) into a fresh temp dir.
//
// An index.html is added when files does not provide one.
func SiteAssets(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	WriteAssets(t, dir, files)
	if _, ok := files["index.html"]; !ok {
		WriteAssets(t, dir, map[string]string{"index.html": "<!doctype html><title>site</title>"})
	}
	return dir
}

// WriteAssets writes files into dir, creating parent directories.
func WriteAssets(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(files[name]), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// ManualIDGenerator is a deterministic, predictable ID generator for tests.
type ManualIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int64
	queue  []string
}

var _ sitetheory.IDGenerator = (*ManualIDGenerator)(nil)

func NewManualIDGenerator() *ManualIDGenerator {
	return &ManualIDGenerator{prefix: "run", next: 1}
}

func (g *ManualIDGenerator) Queue(ids ...string) {
	g.mu.Lock()
	g.queue = append(g.queue, ids...)
	g.mu.Unlock()
}

func (g *ManualIDGenerator) Reset() {
	g.mu.Lock()
	g.queue = nil
	g.next = 1
	g.mu.Unlock()
}

func (g *ManualIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.queue) > 0 {
		out := g.queue[0]
		g.queue = g.queue[1:]
		return out
	}

	out := fmt.Sprintf("%s-%s", g.prefix, strconv.FormatInt(g.next, 10))
	g.next++
	return out
}
