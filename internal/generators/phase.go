package generators

// Phase is one step of a scaffolding run. Phases run strictly in declaration
// order and none is re-entered.
type Phase int

const (
	PhaseCreateTree Phase = iota
	PhaseInitManifest
	PhaseInstallBaseDeps
	PhaseWriteManifestScripts
	PhaseOrmInit
	PhaseContainerFile
	PhaseDatabaseBranch
	PhaseWriteRouteAndEntry
	PhaseExtraDeps
	PhaseVcsInit
	PhaseDone
)

var phaseNames = [...]string{
	PhaseCreateTree:           "CreateTree",
	PhaseInitManifest:         "InitManifest",
	PhaseInstallBaseDeps:      "InstallBaseDeps",
	PhaseWriteManifestScripts: "WriteManifestScripts",
	PhaseOrmInit:              "OptionalOrmInit",
	PhaseContainerFile:        "OptionalContainerFile",
	PhaseDatabaseBranch:       "DatabaseBranch",
	PhaseWriteRouteAndEntry:   "WriteRouteAndEntry",
	PhaseExtraDeps:            "OptionalExtraDeps",
	PhaseVcsInit:              "OptionalVcsInit",
	PhaseDone:                 "Done",
}

var phaseTitles = [...]string{
	PhaseCreateTree:           "Creating project directory",
	PhaseInitManifest:         "Initializing package manifest",
	PhaseInstallBaseDeps:      "Installing base dependencies",
	PhaseWriteManifestScripts: "Writing manifest scripts",
	PhaseOrmInit:              "Initializing Prisma",
	PhaseContainerFile:        "Writing Dockerfile",
	PhaseDatabaseBranch:       "Configuring database",
	PhaseWriteRouteAndEntry:   "Writing routes and entry point",
	PhaseExtraDeps:            "Installing add-ons",
	PhaseVcsInit:              "Initializing git repository",
	PhaseDone:                 "Done",
}

// String returns the phase name.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

// Title returns the progress line shown for the phase.
func (p Phase) Title() string {
	if p < 0 || int(p) >= len(phaseTitles) {
		return p.String()
	}
	return phaseTitles[p]
}

// MarshalText renders the phase name in plans.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
