package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB            string  // connection string for the database (optional persistence)
	DataDir       string  // directory containing race fixture files
	ModelsFile    string  // path of the degradation model snapshot
	ResultsDir    string  // directory for validation results
	PitLossFile   string  // optional YAML file with pit loss overrides
	LogLevel      string  // sets the log level (zap log level values)
	LogFormat     string  // text vs json
	LogConfig     string  // path to log config file (zapfilter rules)
	WindowLaps    int     // number of future pit laps to evaluate
	MinSamples    int     // minimum laps required to fit a degradation model
	InitialFuelKg float64 // fuel mass at start of lap 1
	FuelPerLapKg  float64 // fuel consumption per lap
)
