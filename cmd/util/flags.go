package util

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TuftsBCB/supermatrix/apps/fasttree"
	"github.com/TuftsBCB/supermatrix/apps/hmmer"
	"github.com/TuftsBCB/supermatrix/apps/mafft"
)

var (
	FlagCpu = runtime.NumCPU()

	FlagMafft    = "mafft"
	FlagHmmBin   = ""
	FlagFastTree = "FastTreeMP"

	FlagConfig   = ""
	FlagVerbose  = false
	FlagQuiet    = false
	FlagProgress = false
)

// EnvPrefix prefixes the environment variables that may set common flags,
// e.g. SUPERMATRIX_MAFFT or SUPERMATRIX_HMMBIN.
const EnvPrefix = "SUPERMATRIX"

type commonFlag struct {
	set  func(cmd *cobra.Command)
	load func()
	init func()
	use  bool
}

var commonFlags = map[string]*commonFlag{
	"cpu": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().IntVar(&FlagCpu, "cpu", FlagCpu,
				"The max number of CPUs to use, for this program and for "+
					"each external tool.")
		},
		load: func() { FlagCpu = viper.GetInt("cpu") },
		init: func() {
			runtime.GOMAXPROCS(FlagCpu)
		},
	},
	"mafft": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&FlagMafft, "mafft", FlagMafft,
				"The path to the mafft binary.")
		},
		load: func() { FlagMafft = viper.GetString("mafft") },
	},
	"hmmbin": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&FlagHmmBin, "hmmbin", FlagHmmBin,
				"The directory containing hmmbuild and hmmsearch.\n"+
					"When empty, they are found in PATH.")
		},
		load: func() { FlagHmmBin = viper.GetString("hmmbin") },
	},
	"fasttree": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&FlagFastTree, "fasttree", FlagFastTree,
				"The path to the FastTree binary.")
		},
		load: func() { FlagFastTree = viper.GetString("fasttree") },
	},
	"config": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&FlagConfig, "config", FlagConfig,
				"A configuration file (any format viper reads) that may set "+
					"cpu, mafft, hmmbin and fasttree.")
		},
	},
	"verbose": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().BoolVarP(&FlagVerbose, "verbose", "v", FlagVerbose,
				"Show debug messages, including every command run.")
		},
	},
	"quiet": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().BoolVarP(&FlagQuiet, "quiet", "q", FlagQuiet,
				"Only show warnings and errors.")
		},
	},
	"progress": {
		set: func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&FlagProgress, "progress", FlagProgress,
				"Show a progress bar.")
		},
	},
}

// FlagUse registers the named common flags on cmd.
func FlagUse(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		fl, ok := commonFlags[name]
		if !ok {
			panic("unknown common flag: " + name)
		}
		fl.use = true
		fl.set(cmd)
	}
}

// FlagInit settles the common flags of cmd after parsing. Values given on
// the command line win over environment variables, which win over the
// configuration file.
func FlagInit(cmd *cobra.Command) {
	SetupLogging(FlagVerbose, FlagQuiet)

	v := viper.GetViper()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if len(FlagConfig) > 0 {
		v.SetConfigFile(FlagConfig)
		Assert(v.ReadInConfig(), "Could not read config file '%s'", FlagConfig)
	}
	for name, fl := range commonFlags {
		pf := cmd.Flags().Lookup(name)
		if !fl.use || pf == nil {
			continue
		}
		Assert(v.BindPFlag(name, pf), "Could not bind flag '%s'", name)
		if fl.load != nil {
			fl.load()
		}
		if fl.init != nil {
			fl.init()
		}
	}
}

// HMMBuild returns the hmmbuild configuration given by the common flags.
func HMMBuild() hmmer.HMMBuildConfig {
	conf := hmmer.HMMBuildDefault
	conf.Exec = filepath.Join(FlagHmmBin, "hmmbuild")
	conf.CPUs = FlagCpu
	return conf
}

// HMMSearch returns the hmmsearch configuration given by the common flags.
func HMMSearch() hmmer.HMMSearchConfig {
	conf := hmmer.HMMSearchDefault
	conf.Exec = filepath.Join(FlagHmmBin, "hmmsearch")
	conf.CPUs = FlagCpu
	return conf
}

// Mafft returns the MAFFT configuration given by the common flags.
func Mafft() mafft.Config {
	conf := mafft.Default
	conf.Exec = FlagMafft
	conf.Threads = FlagCpu
	return conf
}

// FastTree returns the FastTree configuration given by the common flags.
func FastTree() fasttree.Config {
	conf := fasttree.Default
	conf.Exec = FlagFastTree
	return conf
}

func GetFlagString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	Assert(err, "Could not read flag '--%s'", name)
	return v
}

func GetFlagStringSlice(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	Assert(err, "Could not read flag '--%s'", name)
	return v
}

func GetFlagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	Assert(err, "Could not read flag '--%s'", name)
	return v
}

func GetFlagInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	Assert(err, "Could not read flag '--%s'", name)
	return v
}

func GetFlagNonNegativeFloat64(cmd *cobra.Command, name string) float64 {
	v, err := cmd.Flags().GetFloat64(name)
	Assert(err, "Could not read flag '--%s'", name)
	if v < 0 {
		Fatalf("The value of flag '--%s' should not be negative: %f", name, v)
	}
	return v
}
