package config

const (
	DefaultCompilerCommand = "pip-compile"
	DefaultParallelism     = 3
	DefaultLogLevel        = "info"
)

// Default returns a Config with all default values applied.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Command: DefaultCompilerCommand,
		},
		Parallelism: DefaultParallelism,
		LogLevel:    DefaultLogLevel,
	}
}
