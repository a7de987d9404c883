/*
 * config.go, part of fraggrow.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package config loads the configuration of a growing run from command-line flags, FRAGGROW_*
//environment variables and an optional YAML, TOML or JSON file, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rmera/fraggrow/growing"
	"github.com/rmera/fraggrow/internal/archive"
	"github.com/rmera/fraggrow/internal/logging"
	"github.com/rmera/fraggrow/report"
	"github.com/rmera/fraggrow/template"
)

//EnvPrefix is the prefix of the environment variables read.
const EnvPrefix = "FRAGGROW"

const (
	DefaultIterations = 10
	DefaultCriteria   = "Binding Energy"
	DefaultPlopPath   = "PlopRotTemp.py"
	DefaultControl    = "control_template.conf"
	DefaultResFold    = "growing_output"
	DefaultReport     = "report_"
	DefaultTraject    = "trajectory_"
	DefaultPDBOut     = "growing_pdbs"
	DefaultGrowth     = "linear"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

//Config is the whole configuration of the program.
type Config struct {
	WorkDir        string         `mapstructure:"workdir"`
	ComplexPDB     string         `mapstructure:"complex_pdb"`
	FragmentPDB    string         `mapstructure:"fragment_pdb"`
	CoreAtom       string         `mapstructure:"core_atom"`
	FragmentAtom   string         `mapstructure:"fragment_atom"`
	HCore          string         `mapstructure:"h_core"`
	HFrag          string         `mapstructure:"h_frag"`
	ChainCore      string         `mapstructure:"chain_core"`
	ChainFrag      string         `mapstructure:"chain_frag"`
	Iterations     int            `mapstructure:"iterations"`
	Criteria       string         `mapstructure:"criteria"`
	Direction      string         `mapstructure:"direction"`
	FrameColumn    string         `mapstructure:"frame_column"`
	PlopPath       string         `mapstructure:"plop_path"`
	SchPython      string         `mapstructure:"sch_python"`
	PeleDir        string         `mapstructure:"pele_dir"`
	CPUs           int            `mapstructure:"cpus"`
	MPIRun         string         `mapstructure:"mpirun"`
	Contrl         string         `mapstructure:"contrl"`
	ResFold        string         `mapstructure:"resfold"`
	Report         string         `mapstructure:"report"`
	Traject        string         `mapstructure:"traject"`
	PDBOut         string         `mapstructure:"pdbout"`
	Growth         string         `mapstructure:"growth"`
	DummyScale     float64        `mapstructure:"dummy_scale"`
	Strict         bool           `mapstructure:"strict"`
	ContactResidue string         `mapstructure:"contact_residue"`
	Ledger         string         `mapstructure:"ledger"`
	MetricsFile    string         `mapstructure:"metrics_file"`
	Plot           string         `mapstructure:"plot"`
	LogLevel       string         `mapstructure:"log_level"`
	LogFormat      string         `mapstructure:"log_format"`
	Archive        archive.Config `mapstructure:"archive"`
}

//flagKeys maps the flags whose configuration key is not the flag name itself.
var flagKeys = map[string]string{
	"log-level":        "log_level",
	"log-format":       "log_format",
	"compress_archive": "archive.compress",
	"archive_endpoint": "archive.endpoint",
	"archive_bucket":   "archive.bucket",
	"archive_prefix":   "archive.prefix",
	"archive_secure":   "archive.secure",
}

//NewViper returns a viper reading FRAGGROW_* variables, where FRAGGROW_ARCHIVE_BUCKET
//gives archive.bucket.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	//zero is a value for these, so their defaults are not left to ApplyDefaults.
	v.SetDefault("iterations", DefaultIterations)
	v.SetDefault("cpus", 1)
	//AutomaticEnv only works for keys viper knows about, so the ones set only
	//through the environment must be bound.
	for _, k := range []string{"archive.access_key", "archive.secret_key", "archive.region"} {
		_ = v.BindEnv(k)
	}
	return v
}

//BindFlags binds every flag in flags to its configuration key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" || f.Name == "help" {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

//Load reads the file, if given, into v, and returns the resulting Config with the defaults
//applied, and validated.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %q: %w", file, err)
		}
	}
	C := new(Config)
	if err := v.Unmarshal(C); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	ApplyDefaults(C)
	if err := C.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return C, nil
}

//ApplyDefaults fills the zero-valued fields of C with their defaults. Iterations and
//CPUs are not touched, as 0 is a value to reject there. Their defaults come from NewViper.
func ApplyDefaults(C *Config) {
	if C == nil {
		return
	}
	if C.WorkDir == "" {
		C.WorkDir = "."
	}
	if C.ChainCore == "" {
		C.ChainCore = growing.DefaultChain
	}
	if C.ChainFrag == "" {
		C.ChainFrag = growing.DefaultChain
	}
	if C.Criteria == "" {
		C.Criteria = DefaultCriteria
	}
	if C.Direction == "" {
		C.Direction = report.Min.String()
	}
	if C.FrameColumn == "" {
		C.FrameColumn = report.DefaultFrameColumn
	}
	if C.PlopPath == "" {
		C.PlopPath = DefaultPlopPath
	}
	if C.SchPython == "" {
		C.SchPython = "python"
		if sch := os.Getenv("SCHRODINGER"); sch != "" {
			C.SchPython = filepath.Join(sch, "utilities", "python")
		}
	}
	if C.PeleDir == "" {
		C.PeleDir = os.Getenv("PELE_DIR")
	}
	if C.MPIRun == "" {
		C.MPIRun = "mpirun"
	}
	if C.Contrl == "" {
		C.Contrl = DefaultControl
	}
	if C.ResFold == "" {
		C.ResFold = DefaultResFold
	}
	if C.Report == "" {
		C.Report = DefaultReport
	}
	if C.Traject == "" {
		C.Traject = DefaultTraject
	}
	if C.PDBOut == "" {
		C.PDBOut = DefaultPDBOut
	}
	if C.Growth == "" {
		C.Growth = DefaultGrowth
	}
	if C.LogLevel == "" {
		C.LogLevel = DefaultLogLevel
	}
	if C.LogFormat == "" {
		C.LogFormat = DefaultLogFormat
	}
}

//Validate checks that C describes a run that can be started.
func (C *Config) Validate() error {
	for _, v := range []struct{ flag, value string }{
		{"complex_pdb", C.ComplexPDB},
		{"fragment_pdb", C.FragmentPDB},
		{"core_atom", C.CoreAtom},
		{"fragment_atom", C.FragmentAtom},
	} {
		if v.value == "" {
			return fmt.Errorf("%s is required", v.flag)
		}
	}
	if C.PeleDir == "" {
		return fmt.Errorf("pele_dir is required, unless PELE_DIR is set")
	}
	if C.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", C.Iterations)
	}
	if C.CPUs < 1 {
		return fmt.Errorf("cpus must be at least 1, got %d", C.CPUs)
	}
	if C.DummyScale < 0 || C.DummyScale > 1 {
		return fmt.Errorf("dummy_scale must be in (0,1], got %g", C.DummyScale)
	}
	if _, err := report.ParseDirection(C.Direction); err != nil {
		return err
	}
	if _, err := template.Growth(C.Growth); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(C.LogLevel); err != nil {
		return err
	}
	switch C.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format %q is invalid, use console or json", C.LogFormat)
	}
	if (C.Archive.Endpoint == "") != (C.Archive.Bucket == "") {
		return fmt.Errorf("archive_endpoint and archive_bucket go together")
	}
	return nil
}

//Growing returns the configuration of the growing run itself.
func (C *Config) Growing() (growing.Config, error) {
	dir, err := report.ParseDirection(C.Direction)
	if err != nil {
		return growing.Config{}, err
	}
	return growing.Config{
		ComplexPDB:     C.ComplexPDB,
		FragmentPDB:    C.FragmentPDB,
		CoreAtom:       C.CoreAtom,
		FragmentAtom:   C.FragmentAtom,
		CoreH:          C.HCore,
		FragH:          C.HFrag,
		CoreChain:      C.ChainCore,
		FragChain:      C.ChainFrag,
		Iterations:     C.Iterations,
		Criteria:       C.Criteria,
		Direction:      dir,
		FrameColumn:    C.FrameColumn,
		Control:        C.Contrl,
		ResFold:        C.ResFold,
		Report:         C.Report,
		Traject:        C.Traject,
		PDBOut:         C.PDBOut,
		Growth:         C.Growth,
		DummyScale:     C.DummyScale,
		ContactResidue: C.ContactResidue,
		Strict:         C.Strict,
	}, nil
}

//Logging returns the configuration of the logger.
func (C *Config) Logging() logging.Config {
	return logging.Config{Level: C.LogLevel, Format: C.LogFormat}
}

//AddFlags defines every configuration flag in flags.
func AddFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "configuration file (YAML, TOML or JSON)")
	flags.String("workdir", ".", "directory where the run takes place")
	flags.String("complex_pdb", "", "PDB with the protein-ligand complex whose ligand is the core for the growing")
	flags.String("fragment_pdb", "", "PDB with the fragment to add to the core")
	flags.String("core_atom", "", "PDB name of the core heavy atom that bonds the fragment")
	flags.String("fragment_atom", "", "PDB name of the fragment heavy atom that bonds the core")
	flags.String("h_core", "", "core hydrogen replaced by the fragment (the first bonded to core_atom if empty)")
	flags.String("h_frag", "", "fragment hydrogen replaced by the core (the first bonded to fragment_atom if empty)")
	flags.String("chain_core", growing.DefaultChain, "chain of the core ligand")
	flags.String("chain_frag", growing.DefaultChain, "chain of the fragment")
	flags.IntP("iterations", "x", DefaultIterations, "number of growing steps")
	flags.String("criteria", DefaultCriteria, "report column used to select the structure for the next step")
	flags.String("direction", report.Min.String(), "whether the best criterion value is the min or the max")
	flags.String("frame_column", report.DefaultFrameColumn, "report column with the trajectory model of each row")
	flags.String("plop_path", DefaultPlopPath, "path to PlopRotTemp")
	flags.String("sch_python", "", "Schrodinger's python ($SCHRODINGER/utilities/python by default)")
	flags.StringP("pele_dir", "d", "", "PELE installation directory or executable ($PELE_DIR by default)")
	flags.Int("cpus", 1, "MPI processes for PELE, serial if 1")
	flags.String("mpirun", "mpirun", "mpirun command for parallel PELE runs")
	flags.StringP("contrl", "c", DefaultControl, "control file template")
	flags.StringP("resfold", "r", DefaultResFold, "name for the results folders")
	flags.String("report", DefaultReport, "prefix of the PELE report files")
	flags.String("traject", DefaultTraject, "prefix of the PELE trajectory files")
	flags.String("pdbout", DefaultPDBOut, "folder for the input structure of every step")
	flags.String("growth", DefaultGrowth, "growth of the fragment-only parameters: "+strings.Join(template.GrowthNames(), ", "))
	flags.Float64("dummy_scale", 0, "contraction of the fragment in the starting complex (0.1 if 0)")
	flags.Bool("strict", false, "fail on missing selections instead of logging them")
	flags.String("contact_residue", "", "residue, as chain:number, whose distance to the ligand is reported")
	flags.String("ledger", "", "SQLite database where the run is recorded")
	flags.String("metrics_file", "", "Prometheus textfile written at the end of the run")
	flags.String("plot", "", "image with the criterion per iteration, written at the end of the run")
	flags.Bool("compress_archive", false, "compress the archived files with zstd")
	flags.String("archive_endpoint", "", "S3-compatible endpoint where the iteration files are uploaded")
	flags.String("archive_bucket", "", "bucket for the uploaded files")
	flags.String("archive_prefix", "", "prefix for the uploaded object names")
	flags.Bool("archive_secure", true, "use TLS with the archive endpoint")
	flags.String("log-level", DefaultLogLevel, "debug, info, warn or error")
	flags.String("log-format", DefaultLogFormat, "console or json")
}
