package projectmodel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/objectwriter"
	"go.trai.ch/zerr"
)

const (
	dgSpecFormat = 1

	// LegacyHashEnv selects SHA-512 instead of FNV-1a for GetHash when set
	// to "true".
	LegacyHashEnv = "NUGET_ENABLE_LEGACY_DGSPEC_HASH_FUNCTION"
)

var (
	// ErrNilProject is returned when a nil spec is added to a graph.
	ErrNilProject = zerr.New("project spec cannot be nil")

	// ErrInvalidDgSpec is returned when a dgspec document is not an object.
	ErrInvalidDgSpec = zerr.New("dependency graph spec must be a JSON object")
)

// GetDGSpecFileName returns the dgspec file name of a project.
func GetDGSpecFileName(projectName string) string {
	return projectName + ".nuget.dgspec.json"
}

// DependencyGraphSpec is the set of projects that take part in a restore and
// the subset of them that restore was asked for. Project and restore names
// are unique under the host's path comparer.
type DependencyGraphSpec struct {
	restore  map[string]string
	projects map[string]*PackageSpec
	names    map[string]string
	readOnly bool

	childHashes *projectHashCache
	hashCache   *projectHashCache
}

// projectHashCache holds project hashes shared by graphs derived from one
// read-only graph.
type projectHashCache struct {
	mu     sync.Mutex
	hashes map[string]string
}

func (c *projectHashCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.hashes[key]
	return h, ok
}

func (c *projectHashCache) put(key, hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hashes[key]; !ok {
		c.hashes[key] = hash
	}
}

// NewDependencyGraphSpec creates an empty graph. A read-only graph shares its
// specs with derived graphs instead of cloning them, and caches per-project
// hashes.
func NewDependencyGraphSpec(readOnly bool) *DependencyGraphSpec {
	g := &DependencyGraphSpec{
		restore:  map[string]string{},
		projects: map[string]*PackageSpec{},
		names:    map[string]string{},
		readOnly: readOnly,
	}
	if readOnly {
		g.childHashes = &projectHashCache{hashes: map[string]string{}}
	}
	return g
}

func pathKey(s string) string {
	if equality.Path == equality.OrdinalIgnoreCase {
		return strings.ToLower(s)
	}
	return s
}

func sortedPaths(values []string) []string {
	slices.SortFunc(values, comparePaths)
	return values
}

// Restore returns the unique names of the projects to restore, sorted.
func (g *DependencyGraphSpec) Restore() []string {
	out := make([]string, 0, len(g.restore))
	for _, name := range g.restore {
		out = append(out, name)
	}
	return sortedPaths(out)
}

// Projects returns every project, sorted by unique name.
func (g *DependencyGraphSpec) Projects() []*PackageSpec {
	names := make([]string, 0, len(g.names))
	for _, name := range g.names {
		names = append(names, name)
	}
	out := make([]*PackageSpec, 0, len(names))
	for _, name := range sortedPaths(names) {
		out = append(out, g.projects[pathKey(name)])
	}
	return out
}

// GetProjectSpec returns the project with the given unique name, or nil.
func (g *DependencyGraphSpec) GetProjectSpec(uniqueName string) *PackageSpec {
	return g.projects[pathKey(uniqueName)]
}

// AddRestore marks a project for restore.
func (g *DependencyGraphSpec) AddRestore(uniqueName string) {
	key := pathKey(uniqueName)
	if _, ok := g.restore[key]; !ok {
		g.restore[key] = uniqueName
	}
}

// AddProject adds spec under its unique name, or under a fresh uuid when it
// has none. A project that is already present is kept.
func (g *DependencyGraphSpec) AddProject(spec *PackageSpec) error {
	if spec == nil {
		return ErrNilProject
	}
	name := ""
	if spec.RestoreMetadata != nil {
		name = spec.RestoreMetadata.ProjectUniqueName
	}
	if name == "" {
		name = uuid.NewString()
	}
	g.addProject(name, spec)
	return nil
}

func (g *DependencyGraphSpec) addProject(name string, spec *PackageSpec) {
	key := pathKey(name)
	if _, ok := g.projects[key]; ok {
		return
	}
	g.projects[key] = spec
	g.names[key] = name
}

func (g *DependencyGraphSpec) share(spec *PackageSpec) *PackageSpec {
	if g.readOnly {
		return spec
	}
	return spec.Clone()
}

// projectReferenceNames returns the referenced projects of spec that are
// part of the graph.
func (g *DependencyGraphSpec) projectReferenceNames(spec *PackageSpec) []string {
	if spec == nil || spec.RestoreMetadata == nil {
		return nil
	}
	var names []string
	for _, fw := range spec.RestoreMetadata.TargetFrameworks {
		for _, ref := range fw.ProjectReferences {
			if _, ok := g.projects[pathKey(ref.ProjectUniqueName)]; ok {
				names = append(names, ref.ProjectUniqueName)
			}
		}
	}
	return names
}

// GetClosure returns the root project followed by every project it
// references, directly or not. The root comes first.
func (g *DependencyGraphSpec) GetClosure(rootUniqueName string) []*PackageSpec {
	var closure []*PackageSpec
	added := map[string]bool{}
	var toWalk []*PackageSpec
	if root := g.GetProjectSpec(rootUniqueName); root != nil {
		toWalk = append(toWalk, root)
	}
	for len(toWalk) > 0 {
		spec := toWalk[len(toWalk)-1]
		toWalk = toWalk[:len(toWalk)-1]
		closure = append(closure, spec)
		for _, name := range g.projectReferenceNames(spec) {
			key := pathKey(name)
			if added[key] {
				continue
			}
			added[key] = true
			if child := g.projects[key]; child != nil {
				toWalk = append(toWalk, child)
			}
		}
	}
	return closure
}

// GetParents returns the unique names of the projects whose closure contains
// rootUniqueName.
func (g *DependencyGraphSpec) GetParents(rootUniqueName string) []string {
	var parents []string
	for _, project := range g.Projects() {
		name := uniqueNameOf(project)
		if strings.EqualFold(name, rootUniqueName) {
			continue
		}
		for _, spec := range g.GetClosure(name) {
			if strings.EqualFold(uniqueNameOf(spec), rootUniqueName) {
				parents = append(parents, name)
				break
			}
		}
	}
	return parents
}

func uniqueNameOf(spec *PackageSpec) string {
	if spec == nil || spec.RestoreMetadata == nil {
		return ""
	}
	return spec.RestoreMetadata.ProjectUniqueName
}

// WithProjectClosure returns a graph restoring only uniqueName, holding its
// closure.
func (g *DependencyGraphSpec) WithProjectClosure(uniqueName string) *DependencyGraphSpec {
	out := NewDependencyGraphSpec(false)
	out.AddRestore(uniqueName)
	for _, spec := range g.GetClosure(uniqueName) {
		_ = out.AddProject(g.share(spec))
	}
	return out
}

// CreateFromClosure returns a graph restoring uniqueName that holds closure.
// Children of a read-only graph share its hash cache.
func (g *DependencyGraphSpec) CreateFromClosure(uniqueName string, closure []*PackageSpec) (*DependencyGraphSpec, error) {
	if uniqueName == "" {
		return nil, zerr.New("project unique name cannot be empty")
	}
	out := NewDependencyGraphSpec(false)
	out.AddRestore(uniqueName)
	for _, spec := range closure {
		if err := out.AddProject(g.share(spec)); err != nil {
			return nil, err
		}
	}
	out.hashCache = g.childHashes
	return out, nil
}

// WithoutRestores returns a graph holding the same projects and nothing to
// restore.
func (g *DependencyGraphSpec) WithoutRestores() *DependencyGraphSpec {
	out := NewDependencyGraphSpec(false)
	for _, spec := range g.Projects() {
		_ = out.AddProject(spec)
	}
	return out
}

// WithReplacedSpec returns a graph restoring project, where project replaces
// the existing spec of the same name.
func (g *DependencyGraphSpec) WithReplacedSpec(project *PackageSpec) (*DependencyGraphSpec, error) {
	return g.WithPackageSpecs([]*PackageSpec{project})
}

// WithPackageSpecs returns a graph restoring specs, which take precedence
// over the existing projects of the same name.
func (g *DependencyGraphSpec) WithPackageSpecs(specs []*PackageSpec) (*DependencyGraphSpec, error) {
	out := NewDependencyGraphSpec(false)
	for _, spec := range specs {
		if err := out.AddProject(spec); err != nil {
			return nil, err
		}
		out.AddRestore(uniqueNameOf(spec))
	}
	for _, spec := range g.Projects() {
		_ = out.AddProject(spec)
	}
	return out, nil
}

// SortPackagesByDependencyOrder orders projects so that every project comes
// after the projects it references. Projects at the same depth are sorted by
// unique name; projects in a cycle are appended in name order.
func SortPackagesByDependencyOrder(specs []*PackageSpec) []*PackageSpec {
	byKey := make(map[string]*PackageSpec, len(specs))
	for _, s := range specs {
		byKey[pathKey(uniqueNameOf(s))] = s
	}
	deps := make(map[string][]string, len(specs))
	for key, s := range byKey {
		seen := map[string]bool{}
		if s.RestoreMetadata != nil {
			for _, fw := range s.RestoreMetadata.TargetFrameworks {
				for _, ref := range fw.ProjectReferences {
					k := pathKey(ref.ProjectUniqueName)
					if _, ok := byKey[k]; ok && !seen[k] && k != key {
						seen[k] = true
						deps[key] = append(deps[key], k)
					}
				}
			}
		}
	}

	byName := func(a, b string) int {
		return comparePaths(uniqueNameOf(byKey[a]), uniqueNameOf(byKey[b]))
	}
	remaining := make([]string, 0, len(byKey))
	for key := range byKey {
		remaining = append(remaining, key)
	}
	slices.SortFunc(remaining, byName)

	out := make([]*PackageSpec, 0, len(remaining))
	done := map[string]bool{}
	for len(remaining) > 0 {
		var ready, blocked []string
		for _, key := range remaining {
			ok := true
			for _, d := range deps[key] {
				if !done[d] {
					ok = false
					break
				}
			}
			if ok {
				ready = append(ready, key)
			} else {
				blocked = append(blocked, key)
			}
		}
		if len(ready) == 0 {
			ready, blocked = blocked, nil
		}
		for _, key := range ready {
			done[key] = true
			out = append(out, byKey[key])
		}
		remaining = blocked
	}
	return out
}

// LoadDependencyGraphSpec reads a dgspec document. path is used in error
// messages.
func LoadDependencyGraphSpec(rd io.Reader, path string, opts ...jsonstream.Option) (*DependencyGraphSpec, error) {
	r, err := openDocument(rd, path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sr := &specReader{r: r, path: path}
	if r.TokenType() != jsonstream.StartObject {
		return nil, zerr.With(zerr.Wrap(ErrInvalidDgSpec, "failed to read dependency graph spec"), "path", path)
	}
	g := NewDependencyGraphSpec(false)
	err = r.ReadObject(func(prop string) error {
		switch prop {
		case "restore":
			if err := sr.next(); err != nil {
				return err
			}
			return r.ReadObject(func(name string) error {
				if name != "" {
					g.AddRestore(name)
				}
				return r.Skip()
			})
		case "projects":
			if err := sr.next(); err != nil {
				return err
			}
			return r.ReadObject(func(name string) error {
				if err := sr.next(); err != nil {
					return err
				}
				spec, err := sr.readPackageSpec("", path)
				if err != nil {
					return err
				}
				g.addProject(name, spec)
				return nil
			})
		}
		return r.Skip()
	})
	if err != nil {
		return nil, sr.fail(err)
	}
	return g, nil
}

// LoadDependencyGraphSpecFile reads the dgspec file at path.
func LoadDependencyGraphSpecFile(path string) (*DependencyGraphSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read dependency graph spec"), "path", path)
	}
	return LoadDependencyGraphSpec(bytes.NewReader(data), path)
}

// Write writes the graph: the format version, the restore names and every
// project keyed by unique name.
func (g *DependencyGraphSpec) Write(w objectwriter.ObjectWriter) error {
	return g.write(w, nil)
}

// Render returns the indented JSON form of the graph.
func (g *DependencyGraphSpec) Render() ([]byte, error) {
	return objectwriter.Render(g.Write)
}

// Save writes the graph to path, replacing any existing file.
func (g *DependencyGraphSpec) Save(path string) error {
	data, err := g.Render()
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// GetHash fingerprints the graph with FNV-1a, or with SHA-512 when
// LegacyHashEnv is "true".
func (g *DependencyGraphSpec) GetHash() (string, error) {
	if strings.EqualFold(os.Getenv(LegacyHashEnv), "true") {
		return g.GetHashWith(func() objectwriter.HashFunction { return objectwriter.NewSha512Hash() })
	}
	return g.GetHashWith(func() objectwriter.HashFunction { return objectwriter.NewFnvHash64() })
}

// GetHashWith fingerprints the graph with hash functions made by newHash.
// Graphs created by CreateFromClosure on a read-only graph hash each project
// once and reuse the result.
func (g *DependencyGraphSpec) GetHashWith(newHash func() objectwriter.HashFunction) (string, error) {
	hw := objectwriter.NewHashObjectWriter(newHash())
	var project func(string, *PackageSpec) (string, error)
	if g.hashCache != nil {
		project = func(name string, spec *PackageSpec) (string, error) {
			return g.projectHash(name, spec, newHash)
		}
	}
	if err := g.write(hw, project); err != nil {
		return "", err
	}
	h, err := hw.Seal()
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

func (g *DependencyGraphSpec) projectHash(name string, spec *PackageSpec, newHash func() objectwriter.HashFunction) (string, error) {
	key := pathKey(name)
	if h, ok := g.hashCache.get(key); ok {
		return h, nil
	}
	pw := objectwriter.NewHashObjectWriter(newHash())
	if err := WritePackageSpec(pw, spec); err != nil {
		return "", err
	}
	sealed, err := pw.Seal()
	if err != nil {
		return "", err
	}
	g.hashCache.put(key, sealed.String())
	return sealed.String(), nil
}

// write emits the graph. When project is set each project is written as an
// empty object named by its hash.
func (g *DependencyGraphSpec) write(w objectwriter.ObjectWriter, project func(string, *PackageSpec) (string, error)) error {
	gw := &writer{w: w}
	gw.integer("format", dgSpecFormat)
	gw.objectStart("restore")
	for _, name := range g.Restore() {
		gw.objectStart(name)
		gw.objectEnd()
	}
	gw.objectEnd()

	gw.objectStart("projects")
	names := make([]string, 0, len(g.names))
	for _, name := range g.names {
		names = append(names, name)
	}
	for _, name := range sortedPaths(names) {
		spec := g.projects[pathKey(name)]
		if project != nil {
			h, err := project(name, spec)
			if err != nil {
				return err
			}
			gw.objectStart(h)
			gw.objectEnd()
			continue
		}
		gw.objectStart(name)
		gw.packageSpec(spec)
		gw.objectEnd()
	}
	gw.objectEnd()
	if gw.err != nil {
		return zerr.Wrap(gw.err, fmt.Sprintf("failed to write dependency graph spec with %d projects", len(names)))
	}
	return nil
}
