package projectmodel

import (
	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/librarymodel"
)

func (p *specReader) readRestoreMetadata() (*ProjectRestoreMetadata, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	md := &ProjectRestoreMetadata{}
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "centralPackageVersionsManagementEnabled":
			md.CentralPackageVersionsEnabled, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "centralPackageFloatingVersionsEnabled":
			md.CentralPackageFloatingVersionsEnabled, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "centralPackageVersionOverrideDisabled":
			md.CentralPackageVersionOverrideDisabled, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "CentralPackageTransitivePinningEnabled":
			md.CentralPackageTransitivePinningEnabled, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "configFilePaths":
			md.ConfigFilePaths, err = p.r.ReadNextStringArray()
		case "crossTargeting":
			md.CrossTargeting, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "fallbackFolders":
			md.FallbackFolders, err = p.r.ReadNextStringArray()
		case "files":
			err = p.readRestoreFiles(md)
		case "frameworks":
			md.TargetFrameworks, err = p.readRestoreFrameworks()
		case "legacyPackagesDirectory":
			md.LegacyPackagesDirectory, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "originalTargetFrameworks":
			md.OriginalTargetFrameworks, err = p.r.ReadNextStringArray()
		case "outputPath":
			md.OutputPath, err = p.r.ReadNextTokenAsString()
		case "packagesConfigPath":
			md.PackagesConfigPath, err = p.r.ReadNextTokenAsString()
		case "packagesPath":
			md.PackagesPath, err = p.r.ReadNextTokenAsString()
		case "projectJsonPath":
			md.ProjectJSONPath, err = p.r.ReadNextTokenAsString()
		case "projectName":
			md.ProjectName, err = p.r.ReadNextTokenAsString()
		case "projectPath":
			md.ProjectPath, err = p.r.ReadNextTokenAsString()
		case "projectStyle":
			var text string
			if text, err = p.r.ReadNextTokenAsString(); err == nil {
				md.ProjectStyle, _ = ParseProjectStyle(text)
			}
		case "projectUniqueName":
			md.ProjectUniqueName, err = p.r.ReadNextTokenAsString()
		case "restoreAuditProperties":
			md.RestoreAuditProperties, err = p.readAuditProperties()
		case "restoreLockProperties":
			md.RestoreLockProperties, err = p.readLockProperties()
		case "skipContentFileWrite":
			md.SkipContentFileWrite, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "sources":
			err = p.readSources(md)
		case "validateRuntimeAssets":
			md.ValidateRuntimeAssets, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "warningProperties":
			md.ProjectWideWarningProperties, err = p.readWarningProperties()
		default:
			err = p.r.Skip()
		}
		return err
	})
	return md, err
}

func (p *specReader) readSources(md *ProjectRestoreMetadata) error {
	if err := p.next(); err != nil {
		return err
	}
	return p.r.ReadObject(func(source string) error {
		md.Sources = append(md.Sources, PackageSource{Source: source})
		return p.r.Skip()
	})
}

func (p *specReader) readRestoreFiles(md *ProjectRestoreMetadata) error {
	if err := p.next(); err != nil {
		return err
	}
	return p.r.ReadObject(func(packagePath string) error {
		abs, err := p.r.ReadNextTokenAsString()
		if err != nil {
			return err
		}
		md.Files = append(md.Files, ProjectRestoreMetadataFile{PackagePath: packagePath, AbsolutePath: abs})
		return nil
	})
}

func (p *specReader) readRestoreFrameworks() ([]*ProjectRestoreMetadataFrameworkInfo, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var infos []*ProjectRestoreMetadataFrameworkInfo
	err := p.r.ReadObject(func(tfm string) error {
		info := &ProjectRestoreMetadataFrameworkInfo{FrameworkName: frameworks.Parse(tfm)}
		if err := p.next(); err != nil {
			return err
		}
		err := p.r.ReadObject(func(prop string) error {
			var err error
			switch prop {
			case "projectReferences":
				info.ProjectReferences, err = p.readProjectReferences()
			case "targetAlias":
				info.TargetAlias, err = p.r.ReadNextTokenAsString()
			default:
				err = p.r.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		infos = append(infos, info)
		return nil
	})
	return infos, err
}

func (p *specReader) readProjectReferences() ([]*ProjectRestoreReference, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var refs []*ProjectRestoreReference
	err := p.r.ReadObject(func(uniqueName string) error {
		if err := p.next(); err != nil {
			return err
		}
		var include, exclude, private, path string
		err := p.r.ReadObject(func(prop string) error {
			var err error
			switch prop {
			case "excludeAssets":
				exclude, err = p.r.ReadNextTokenAsString()
			case "includeAssets":
				include, err = p.r.ReadNextTokenAsString()
			case "privateAssets":
				private, err = p.r.ReadNextTokenAsString()
			case "projectPath":
				path, err = p.r.ReadNextTokenAsString()
			default:
				err = p.r.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		refs = append(refs, &ProjectRestoreReference{
			ProjectUniqueName: uniqueName,
			ProjectPath:       path,
			IncludeAssets:     librarymodel.ParseIncludeFlags(include, librarymodel.IncludeAll),
			ExcludeAssets:     librarymodel.ParseIncludeFlags(exclude, librarymodel.IncludeNone),
			PrivateAssets:     librarymodel.ParseIncludeFlags(private, librarymodel.DefaultSuppressParent),
		})
		return nil
	})
	return refs, err
}

func (p *specReader) readWarningProperties() (*WarningProperties, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	w := &WarningProperties{}
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "allWarningsAsErrors":
			w.AllWarningsAsErrors, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "noWarn":
			w.NoWarn, err = p.readLogCodes()
		case "warnAsError":
			w.WarningsAsErrors, err = p.readLogCodes()
		case "warnNotAsError":
			w.WarningsNotAsErrors, err = p.readLogCodes()
		default:
			err = p.r.Skip()
		}
		return err
	})
	return w, err
}

func (p *specReader) readLockProperties() (*RestoreLockProperties, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	l := &RestoreLockProperties{}
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "nuGetLockFilePath":
			l.NuGetLockFilePath, err = p.r.ReadNextTokenAsString()
		case "restoreLockedMode":
			l.RestoreLockedMode, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "restorePackagesWithLockFile":
			l.RestorePackagesWithLockFile, err = p.r.ReadNextTokenAsString()
		default:
			err = p.r.Skip()
		}
		return err
	})
	return l, err
}

func (p *specReader) readAuditProperties() (*RestoreAuditProperties, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	a := &RestoreAuditProperties{}
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "enableAudit":
			a.EnableAudit, err = p.r.ReadNextTokenAsString()
		case "auditLevel":
			a.AuditLevel, err = p.r.ReadNextTokenAsString()
		case "auditMode":
			a.AuditMode, err = p.r.ReadNextTokenAsString()
		default:
			err = p.r.Skip()
		}
		return err
	})
	return a, err
}
