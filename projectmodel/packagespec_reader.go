package projectmodel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/runtimemodel"
	"github.com/willibrandon/projectmodel/version"
	"go.trai.ch/zerr"
)

const (
	packageTypeShapeMessage = "The pack options package type must be a string or array of strings in 'project.json'."
	scriptShapeMessage      = "The value of a script in 'project.json' can only be a string or an array of strings"
)

// specReader holds the state shared by the package spec property readers.
type specReader struct {
	r    *jsonstream.Reader
	path string
}

// GetPackageSpec reads a package spec document. A non-empty name becomes the
// spec name and path its file path; path is also used in error messages.
func GetPackageSpec(rd io.Reader, name, path string, opts ...jsonstream.Option) (*PackageSpec, error) {
	r, err := openDocument(rd, path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sr := &specReader{r: r, path: path}
	spec, err := sr.readPackageSpec(name, path)
	if err != nil {
		return nil, sr.fail(err)
	}
	return spec, nil
}

// GetPackageSpecFromBytes reads a package spec held in memory.
func GetPackageSpecFromBytes(data []byte, name, path string) (*PackageSpec, error) {
	return GetPackageSpec(bytes.NewReader(data), name, path)
}

// GetPackageSpecFromFile reads the package spec stored at path.
func GetPackageSpecFromFile(name, path string) (*PackageSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open package spec"), "path", path)
	}
	defer f.Close()
	return GetPackageSpec(f, name, path)
}

// openDocument opens a reader positioned on the document's first token.
func openDocument(rd io.Reader, path string, opts ...jsonstream.Option) (*jsonstream.Reader, error) {
	r, err := jsonstream.NewReader(rd, opts...)
	if err != nil {
		var se *jsonstream.SyntaxError
		if errors.As(err, &se) {
			return nil, wrapFormatError(err, path, se.Line, se.Column)
		}
		return nil, err
	}
	return r, nil
}

// fail turns any error raised while reading into a *FileFormatError.
func (p *specReader) fail(err error) error {
	var ffe *FileFormatError
	if errors.As(err, &ffe) {
		return err
	}
	var se *jsonstream.SyntaxError
	if errors.As(err, &se) {
		return wrapFormatError(err, p.path, se.Line, se.Column)
	}
	return p.wrapHere(asCastError(err))
}

func (p *specReader) errorHere(message string) error {
	return newFormatError(message, p.path, p.r.Line(), p.r.Column())
}

func (p *specReader) wrapHere(err error) error {
	return wrapFormatError(err, p.path, p.r.Line(), p.r.Column())
}

// next advances to the property value.
func (p *specReader) next() error {
	ok, err := p.r.Read()
	if err != nil {
		return err
	}
	if !ok {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// readPackageSpec reads the spec object the reader is positioned on. When a
// name is given, filePath is resolved to an absolute path for
// PackageSpec.FilePath.
func (p *specReader) readPackageSpec(name, filePath string) (*PackageSpec, error) {
	spec := NewPackageSpec()
	var runtimes []runtimemodel.RuntimeDescription
	var supports []runtimemodel.CompatibilityProfile
	packOptionsSet := false

	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "":
			return p.r.Skip()
		case "authors":
			spec.Authors, err = p.r.ReadNextStringArray()
		case "buildOptions":
			spec.BuildOptions, err = p.readBuildOptions()
		case "contentFiles":
			spec.ContentFiles, err = p.r.ReadNextStringArray()
		case "copyright":
			spec.Copyright, err = p.r.ReadNextTokenAsString()
		case "dependencies":
			spec.Dependencies, err = p.readDependencies(false)
		case "description":
			spec.Description, err = p.r.ReadNextTokenAsString()
		case "frameworkAssemblies":
			var deps []*librarymodel.LibraryDependency
			if deps, err = p.readDependencies(true); err == nil {
				spec.Dependencies = append(spec.Dependencies, deps...)
			}
		case "frameworks":
			spec.TargetFrameworks, err = p.readTargetFrameworks()
		case "language":
			spec.Language, err = p.r.ReadNextTokenAsString()
		case "packInclude":
			spec.PackInclude, err = p.readStringMap()
		case "packOptions":
			packOptionsSet = true
			err = p.readPackOptions(spec)
		case "restore", "project":
			spec.RestoreMetadata, err = p.readRestoreMetadata()
		case "runtimes":
			runtimes, err = runtimemodel.ReadRuntimes(p.r)
		case "scripts":
			spec.Scripts, err = p.readScripts()
		case "supports":
			supports, err = runtimemodel.ReadSupports(p.r)
		case "title":
			spec.Title, err = p.r.ReadNextTokenAsString()
		case "tools":
			spec.Tools, err = p.readTools()
		case "version":
			err = p.readVersion(spec)
		default:
			err = p.r.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if !packOptionsSet {
		spec.PackOptions = &PackOptions{PackageType: []librarymodel.PackageType{}}
		spec.Owners = []string{}
		spec.Tags = []string{}
	}
	spec.RuntimeGraph = runtimemodel.NewRuntimeGraph(runtimes, supports)

	if name != "" {
		spec.Name = name
		if filePath != "" {
			if abs, err := filepath.Abs(filePath); err == nil {
				spec.FilePath = abs
			} else {
				spec.FilePath = filePath
			}
		}
	}
	if md := spec.RestoreMetadata; md != nil {
		if spec.Name == "" {
			spec.Name = md.ProjectName
		}
		if spec.FilePath == "" {
			spec.FilePath = md.ProjectJSONPath
		}
		if spec.FilePath == "" {
			spec.FilePath = md.ProjectPath
		}
	}
	return spec, nil
}

func (p *specReader) readVersion(spec *PackageSpec) error {
	text, err := p.r.ReadNextTokenAsString()
	if err != nil || text == "" {
		return err
	}
	if strings.HasSuffix(text, "-*") {
		spec.HasVersionSnapshot = true
		text = strings.TrimSuffix(text, "-*")
	}
	v, err := version.Parse(text)
	if err != nil {
		return p.wrapHere(err)
	}
	spec.Version = v
	spec.IsDefaultVersion = false
	return nil
}

func (p *specReader) readBuildOptions() (*BuildOptions, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	opts := &BuildOptions{}
	err := p.r.ReadObject(func(prop string) error {
		if prop != "outputName" {
			return p.r.Skip()
		}
		var err error
		opts.OutputName, err = p.r.ReadNextTokenAsString()
		return err
	})
	return opts, err
}

// readStringMap reads an object whose values are read as text.
func (p *specReader) readStringMap() (map[string]string, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	out := map[string]string{}
	err := p.r.ReadObject(func(prop string) error {
		v, err := p.r.ReadNextTokenAsString()
		out[prop] = v
		return err
	})
	return out, err
}

func (p *specReader) readScripts() (map[string][]string, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	scripts := map[string][]string{}
	err := p.r.ReadObject(func(prop string) error {
		if err := p.next(); err != nil {
			return err
		}
		switch p.r.TokenType() {
		case jsonstream.String:
			scripts[prop] = []string{p.r.GetString()}
			return nil
		case jsonstream.StartArray:
			items, err := p.r.ReadStringArrayFromArrayStart()
			if err != nil {
				return p.errorHere(scriptShapeMessage)
			}
			scripts[prop] = items
			return nil
		}
		return p.errorHere(scriptShapeMessage)
	})
	return scripts, err
}

// dependencyDefaults are the flags a dependency starts from before its own
// properties are applied.
type dependencyDefaults struct {
	target        librarymodel.LibraryDependencyTarget
	reference     librarymodel.LibraryDependencyReferenceType
	centrallyMgd  bool
	requireExists bool
}

// readDependencies reads a "dependencies" or "frameworkAssemblies" object.
// Framework assemblies default to the Reference target.
func (p *specReader) readDependencies(frameworkAssemblies bool) ([]*librarymodel.LibraryDependency, error) {
	defaults := dependencyDefaults{
		target:    librarymodel.TargetDefault,
		reference: librarymodel.ReferenceDirect,
	}
	if frameworkAssemblies {
		defaults.target = librarymodel.TargetReference
	}
	return p.readDependencyObject(defaults)
}

// readCentralTransitiveDependencies reads the dependency list of a central
// transitive dependency group. Every entry is a centrally managed package.
func (p *specReader) readCentralTransitiveDependencies() ([]*librarymodel.LibraryDependency, error) {
	return p.readDependencyObject(dependencyDefaults{
		target:        librarymodel.TargetPackage,
		reference:     librarymodel.ReferenceTransitive,
		centrallyMgd:  true,
		requireExists: true,
	})
}

func (p *specReader) readDependencyObject(defaults dependencyDefaults) ([]*librarymodel.LibraryDependency, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	deps := []*librarymodel.LibraryDependency{}
	err := p.r.ReadObject(func(name string) error {
		dep, err := p.readDependency(name, defaults)
		if err != nil {
			return err
		}
		deps = append(deps, dep)
		return nil
	})
	return deps, err
}

func (p *specReader) readDependency(name string, defaults dependencyDefaults) (*librarymodel.LibraryDependency, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	valueLine, valueColumn := p.r.Line(), p.r.Column()
	if name == "" {
		return nil, p.errorHere("Unable to resolve dependency ''.")
	}

	var (
		versionRange    *version.Range
		versionOverride *version.Range
		includeNames    []string
		excludeNames    []string
		suppressNames   []string
		noWarn          []librarymodel.NuGetLogCode
		aliases         string
		autoReferenced  bool
		generatePath    bool
		platform        bool
		includeSet      bool
		excludeSet      bool
		suppressSet     bool
		centrallyMgd    = defaults.centrallyMgd
		target          = defaults.target
	)

	parseRange := func(text string) error {
		if text == "" {
			return nil
		}
		vr, err := version.ParseVersionRange(text)
		if err != nil {
			return p.wrapHere(err)
		}
		versionRange = vr
		return nil
	}

	switch p.r.TokenType() {
	case jsonstream.String:
		if err := parseRange(p.r.GetString()); err != nil {
			return nil, err
		}
	case jsonstream.StartObject:
		err := p.r.ReadObject(func(prop string) error {
			var err error
			switch prop {
			case "aliases":
				aliases, err = p.r.ReadNextTokenAsString()
			case "autoReferenced":
				autoReferenced, err = p.r.ReadNextTokenAsBoolOrFalse()
			case "exclude":
				excludeSet = true
				excludeNames, err = p.r.ReadDelimitedString()
			case "generatePathProperty":
				generatePath, err = p.r.ReadNextTokenAsBoolOrFalse()
			case "include":
				includeSet = true
				includeNames, err = p.r.ReadDelimitedString()
			case "noWarn":
				noWarn, err = p.readLogCodes()
			case "suppressParent":
				suppressSet = true
				suppressNames, err = p.r.ReadDelimitedString()
			case "target":
				var text string
				if text, err = p.r.ReadNextTokenAsString(); err == nil {
					target = librarymodel.ParseTarget(text)
					if !target.IsDeclarable() {
						err = p.errorHere(fmt.Sprintf("Invalid dependency target value '%s'.", text))
					}
				}
			case "type":
				var text string
				if text, err = p.r.ReadNextTokenAsString(); err == nil {
					platform = strings.EqualFold(text, "platform")
				}
			case "version":
				var text string
				if text, err = p.r.ReadNextTokenAsString(); err == nil {
					err = parseRange(text)
				}
			case "versionCentrallyManaged":
				centrallyMgd, err = p.r.ReadNextTokenAsBoolOrFalse()
			case "versionOverride":
				var text string
				if text, err = p.r.ReadNextTokenAsString(); err == nil && text != "" {
					if versionOverride, err = version.ParseVersionRange(text); err != nil {
						err = p.wrapHere(err)
					}
				}
			default:
				err = p.r.Skip()
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	default:
		if err := p.r.Skip(); err != nil {
			return nil, err
		}
	}

	include := librarymodel.IncludeAll
	exclude := librarymodel.IncludeNone
	suppress := librarymodel.DefaultSuppressParent
	if includeSet {
		include = librarymodel.GetIncludeFlags(includeNames)
	} else if platform && !excludeSet {
		include = librarymodel.IncludePlatform
	}
	if excludeSet {
		exclude = librarymodel.GetIncludeFlags(excludeNames)
	}
	if suppressSet {
		suppress = librarymodel.GetIncludeFlags(suppressNames)
	}

	if versionRange == nil {
		if defaults.requireExists || target.Has(librarymodel.TargetPackage) {
			return nil, wrapFormatError(ErrMissingVersion, p.path, valueLine, valueColumn)
		}
		versionRange = version.All()
	}

	return &librarymodel.LibraryDependency{
		LibraryRange:            librarymodel.NewLibraryRange(name, versionRange, target),
		IncludeType:             include.Except(exclude),
		SuppressParent:          suppress,
		AutoReferenced:          autoReferenced,
		GeneratePathProperty:    generatePath,
		VersionCentrallyManaged: centrallyMgd,
		ReferenceType:           defaults.reference,
		Aliases:                 aliases,
		NoWarn:                  noWarn,
		VersionOverride:         versionOverride,
	}, nil
}

// readLogCodes reads an array of warning codes, dropping any that do not
// parse.
func (p *specReader) readLogCodes() ([]librarymodel.NuGetLogCode, error) {
	items, err := p.r.ReadNextStringArray()
	if err != nil {
		return nil, err
	}
	return librarymodel.ParseLogCodes(items), nil
}

// readTools reads the legacy tools section. Tools are always packages.
func (p *specReader) readTools() ([]*ToolDependency, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	tools := []*ToolDependency{}
	err := p.r.ReadObject(func(name string) error {
		if err := p.next(); err != nil {
			return err
		}
		valueLine, valueColumn := p.r.Line(), p.r.Column()
		if name == "" {
			return p.errorHere("Unable to resolve tool ''.")
		}
		tool := &ToolDependency{}
		var text string
		switch p.r.TokenType() {
		case jsonstream.String:
			text = p.r.GetString()
		case jsonstream.StartObject:
			err := p.r.ReadObject(func(prop string) error {
				var err error
				switch prop {
				case "version":
					text, err = p.r.ReadNextTokenAsString()
				case "target":
					var t string
					if t, err = p.r.ReadNextTokenAsString(); err == nil && librarymodel.ParseTarget(t) != librarymodel.TargetPackage {
						err = p.errorHere(fmt.Sprintf("Invalid dependency target value '%s'.", t))
					}
				case "imports":
					tool.Imports, err = p.readToolImports()
				default:
					err = p.r.Skip()
				}
				return err
			})
			if err != nil {
				return err
			}
		default:
			if err := p.r.Skip(); err != nil {
				return err
			}
		}
		if text == "" {
			return wrapFormatError(ErrMissingVersion, p.path, valueLine, valueColumn)
		}
		vr, err := version.ParseVersionRange(text)
		if err != nil {
			return p.wrapHere(err)
		}
		tool.LibraryRange = librarymodel.NewLibraryRange(name, vr, librarymodel.TargetPackage)
		tools = append(tools, tool)
		return nil
	})
	return tools, err
}

// readToolImports reads tool fallback frameworks. A single string names one
// framework; anything after a comma in it is ignored.
func (p *specReader) readToolImports() ([]*frameworks.NuGetFramework, error) {
	items, err := p.r.ReadNextStringOrArrayOfStrings()
	if err != nil {
		return nil, err
	}
	if p.r.TokenType() == jsonstream.StartObject {
		return nil, p.r.Skip()
	}
	if p.r.TokenType() == jsonstream.String && len(items) == 1 {
		first, _, _ := strings.Cut(items[0], ",")
		items = []string{strings.TrimSpace(first)}
	}
	var imports []*frameworks.NuGetFramework
	for _, item := range items {
		if item == "" {
			continue
		}
		imports = append(imports, frameworks.Parse(item))
	}
	return imports, nil
}

func (p *specReader) readTargetFrameworks() ([]*TargetFrameworkInformation, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var tfis []*TargetFrameworkInformation
	err := p.r.ReadObject(func(name string) error {
		if err := p.next(); err != nil {
			return err
		}
		line, column := p.r.Line(), p.r.Column()
		tfi, err := p.readTargetFramework(name)
		if err != nil {
			return wrapFormatError(asCastError(err), p.path, line, column)
		}
		tfis = append(tfis, tfi)
		return nil
	})
	return tfis, err
}

// readTargetFramework reads one framework declaration. The reader is on the
// value's first token.
func (p *specReader) readTargetFramework(name string) (*TargetFrameworkInformation, error) {
	tfi := NewTargetFrameworkInformation(frameworks.Parse(name))
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "assetTargetFallback":
			tfi.AssetTargetFallback, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "centralPackageVersions":
			err = p.readCentralPackageVersions(tfi)
		case "dependencies":
			tfi.Dependencies, err = p.readDependencies(false)
		case "downloadDependencies":
			tfi.DownloadDependencies, err = p.readDownloadDependencies()
		case "frameworkAssemblies":
			var deps []*librarymodel.LibraryDependency
			if deps, err = p.readDependencies(true); err == nil {
				tfi.Dependencies = append(tfi.Dependencies, deps...)
			}
		case "frameworkReferences":
			err = p.readFrameworkReferences(tfi)
		case "imports":
			tfi.Imports, err = p.readImports()
		case "runtimeIdentifierGraphPath":
			tfi.RuntimeIdentifierGraphPath, err = p.r.ReadNextTokenAsString()
		case "secondaryFramework":
			var text string
			if text, err = p.r.ReadNextTokenAsString(); err == nil && text != "" {
				tfi.SecondaryFramework = frameworks.Parse(text)
			}
		case "targetAlias":
			tfi.TargetAlias, err = p.r.ReadNextTokenAsString()
		case "warn":
			tfi.Warn, err = p.r.ReadNextTokenAsBoolOrFalse()
		default:
			err = p.r.Skip()
		}
		return err
	})
	return tfi, err
}

func (p *specReader) readCentralPackageVersions(tfi *TargetFrameworkInformation) error {
	if err := p.next(); err != nil {
		return err
	}
	return p.r.ReadObject(func(name string) error {
		text, err := p.r.ReadNextTokenAsString()
		if err != nil {
			return err
		}
		if name == "" {
			return p.errorHere("Unable to resolve central version ''.")
		}
		if text == "" {
			return p.errorHere("The version cannot be null or empty.")
		}
		vr, err := version.ParseVersionRange(text)
		if err != nil {
			return p.wrapHere(err)
		}
		tfi.AddCentralPackageVersion(librarymodel.CentralPackageVersion{Name: name, VersionRange: vr})
		return nil
	})
}

func (p *specReader) readDownloadDependencies() ([]librarymodel.DownloadDependency, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var out []librarymodel.DownloadDependency
	seen := map[string]bool{}
	err := p.r.ReadArray(func() error {
		var name, text string
		err := p.r.ReadObject(func(prop string) error {
			var err error
			switch prop {
			case "name":
				name, err = p.r.ReadNextTokenAsString()
			case "version":
				text, err = p.r.ReadNextTokenAsString()
			default:
				err = p.r.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		if name == "" {
			return p.errorHere("Unable to resolve downloadDependency ''.")
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil
		}
		seen[key] = true
		if text == "" {
			return p.errorHere("The version cannot be null or empty")
		}
		for _, part := range strings.Split(text, ";") {
			vr, err := version.ParseVersionRange(part)
			if err != nil {
				return p.wrapHere(err)
			}
			out = append(out, librarymodel.DownloadDependency{Name: name, VersionRange: vr})
		}
		return nil
	})
	return out, err
}

func (p *specReader) readFrameworkReferences(tfi *TargetFrameworkInformation) error {
	if err := p.next(); err != nil {
		return err
	}
	return p.r.ReadObject(func(name string) error {
		if err := p.next(); err != nil {
			return err
		}
		if name == "" {
			return p.errorHere("Unable to resolve frameworkReference.")
		}
		var private []string
		err := p.r.ReadObject(func(prop string) error {
			if prop != "privateAssets" {
				return p.r.Skip()
			}
			var err error
			private, err = p.r.ReadDelimitedString()
			return err
		})
		if err != nil {
			return err
		}
		tfi.AddFrameworkReference(librarymodel.FrameworkDependency{
			Name:          name,
			PrivateAssets: librarymodel.GetFrameworkDependencyFlags(private),
		})
		return nil
	})
}

func (p *specReader) readImports() ([]*frameworks.NuGetFramework, error) {
	items, err := p.r.ReadNextStringOrArrayOfStrings()
	if err != nil {
		return nil, err
	}
	if p.r.TokenType() == jsonstream.StartObject {
		return nil, p.r.Skip()
	}
	var imports []*frameworks.NuGetFramework
	for _, item := range items {
		if item == "" {
			continue
		}
		fw := frameworks.Parse(item)
		if !fw.IsSpecificFramework() {
			return nil, p.errorHere(fmt.Sprintf("Imports contains an invalid framework: '%s' in 'project.json'.", item))
		}
		imports = append(imports, fw)
	}
	return imports, nil
}

func (p *specReader) readPackOptions(spec *PackageSpec) error {
	if err := p.next(); err != nil {
		return err
	}
	opts := &PackOptions{PackageType: []librarymodel.PackageType{}}
	spec.PackOptions = opts
	if p.r.TokenType() != jsonstream.StartObject {
		return p.r.Skip()
	}
	return p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "files":
			err = p.readPackFiles(opts)
		case "iconUrl":
			spec.IconURL, err = p.r.ReadNextTokenAsString()
		case "licenseUrl":
			spec.LicenseURL, err = p.r.ReadNextTokenAsString()
		case "owners":
			spec.Owners, err = p.r.ReadNextStringArray()
		case "packageType":
			opts.PackageType, err = p.readPackageTypes()
		case "projectUrl":
			spec.ProjectURL, err = p.r.ReadNextTokenAsString()
		case "releaseNotes":
			spec.ReleaseNotes, err = p.r.ReadNextTokenAsString()
		case "requireLicenseAcceptance":
			spec.RequireLicenseAcceptance, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "summary":
			spec.Summary, err = p.r.ReadNextTokenAsString()
		case "tags":
			spec.Tags, err = p.r.ReadNextStringArray()
		default:
			err = p.r.Skip()
		}
		return err
	})
}

func (p *specReader) readPackageTypes() ([]librarymodel.PackageType, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	types := []librarymodel.PackageType{}
	switch p.r.TokenType() {
	case jsonstream.Null:
		return types, nil
	case jsonstream.String:
		return append(types, librarymodel.PackageType{Name: p.r.GetString()}), nil
	case jsonstream.StartArray:
		err := p.r.ReadArray(func() error {
			if p.r.TokenType() != jsonstream.String {
				return p.errorHere(packageTypeShapeMessage)
			}
			types = append(types, librarymodel.PackageType{Name: p.r.GetString()})
			return nil
		})
		return types, err
	}
	return nil, p.errorHere(packageTypeShapeMessage)
}

func (p *specReader) readPackFiles(opts *PackOptions) error {
	if err := p.next(); err != nil {
		return err
	}
	files := &IncludeExcludeFiles{}
	err := p.r.ReadObject(func(prop string) error {
		if prop == "mappings" {
			return p.readMappings(opts)
		}
		return p.readIncludeExcludeProperty(files, prop)
	})
	if err != nil {
		return err
	}
	if !files.IsEmpty() {
		opts.IncludeExcludeFiles = files
	}
	return nil
}

func (p *specReader) readIncludeExcludeProperty(files *IncludeExcludeFiles, prop string) error {
	var target *[]string
	switch prop {
	case "include":
		target = &files.Include
	case "includeFiles":
		target = &files.IncludeFiles
	case "exclude":
		target = &files.Exclude
	case "excludeFiles":
		target = &files.ExcludeFiles
	default:
		return p.r.Skip()
	}
	items, err := p.r.ReadNextStringOrArrayOfStrings()
	if err != nil {
		return err
	}
	if p.r.TokenType() == jsonstream.StartObject {
		return p.r.Skip()
	}
	*target = items
	return nil
}

func (p *specReader) readMappings(opts *PackOptions) error {
	if err := p.next(); err != nil {
		return err
	}
	return p.r.ReadObject(func(key string) error {
		if err := p.next(); err != nil {
			return err
		}
		files := &IncludeExcludeFiles{}
		switch p.r.TokenType() {
		case jsonstream.String:
			files.Include = []string{p.r.GetString()}
		case jsonstream.StartArray:
			items, err := p.r.ReadStringArrayFromArrayStart()
			if err != nil {
				return err
			}
			files.Include = items
		case jsonstream.StartObject:
			err := p.r.ReadObject(func(prop string) error {
				return p.readIncludeExcludeProperty(files, prop)
			})
			if err != nil {
				return err
			}
		default:
			return nil
		}
		if opts.Mappings == nil {
			opts.Mappings = map[string]*IncludeExcludeFiles{}
		}
		opts.Mappings[key] = files
		return nil
	})
}
