package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const envPrefix = "LIBRARY_"

var (
	// ErrReadingConfigFileFailed is returned when the config file cannot be read.
	ErrReadingConfigFileFailed = errors.New("reading the config file failed")

	// ErrDecodingConfigFileFailed is returned when the config file is not valid JSON.
	ErrDecodingConfigFileFailed = errors.New("decoding the config file failed")

	// ErrUnknownConfigKey is returned for keys in the config file that are no policy parameter.
	ErrUnknownConfigKey = errors.New("unknown config key")

	// ErrInvalidEnvValue is returned when an environment override is not an integer.
	ErrInvalidEnvValue = errors.New("environment value is not an integer")
)

// LookupEnvFunc looks up an environment variable, os.LookupEnv is the production implementation.
type LookupEnvFunc func(key string) (string, bool)

type configFile struct {
	LibrarySettings map[string]int
}

// LoadPolicyConfig resolves the policy parameters from the defaults, the optional JSON file at path
// and the environment. An empty path skips the file, a nil lookupEnv uses os.LookupEnv.
// The result is validated.
func LoadPolicyConfig(path string, lookupEnv LookupEnvFunc) (core.PolicyConfig, error) {
	cfg := core.DefaultPolicyConfig()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return core.PolicyConfig{}, err
		}
	}

	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	if err := applyEnv(&cfg, lookupEnv); err != nil {
		return core.PolicyConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return core.PolicyConfig{}, err
	}

	return cfg, nil
}

func applyFile(cfg *core.PolicyConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingConfigFileFailed, err)
	}

	file := new(configFile)
	if err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, file); err != nil {
		return errors.Join(ErrDecodingConfigFileFailed, err)
	}

	for key, value := range file.LibrarySettings {
		if !cfg.Set(key, value) {
			return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
		}
	}

	return nil
}

func applyEnv(cfg *core.PolicyConfig, lookupEnv LookupEnvFunc) error {
	for key := range cfg.Values() {
		envKey := EnvKey(key)

		raw, ok := lookupEnv(envKey)
		if !ok {
			continue
		}

		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, envKey, raw)
		}

		cfg.Set(key, value)
	}

	return nil
}

// BindPolicyFlags registers one int flag per policy parameter, e.g. --max-books-per-reader,
// defaulting to the values of cfg.
func BindPolicyFlags(flags *pflag.FlagSet, cfg core.PolicyConfig) {
	for key, value := range cfg.Values() {
		flags.Int(FlagName(key), value, "policy parameter "+key)
	}
}

// ApplyPolicyFlags overrides cfg with the flags the user actually set and validates the result.
func ApplyPolicyFlags(flags *pflag.FlagSet, cfg core.PolicyConfig) (core.PolicyConfig, error) {
	for key := range cfg.Values() {
		name := FlagName(key)
		if !flags.Changed(name) {
			continue
		}

		value, err := flags.GetInt(name)
		if err != nil {
			return core.PolicyConfig{}, err
		}

		cfg.Set(key, value)
	}

	if err := cfg.Validate(); err != nil {
		return core.PolicyConfig{}, err
	}

	return cfg, nil
}

// EnvKey maps a policy key to its environment variable, MaxBooksPerReader -> LIBRARY_MAX_BOOKS_PER_READER.
func EnvKey(key string) string {
	return envPrefix + strings.ToUpper(splitWords(key, '_'))
}

// FlagName maps a policy key to its flag name, MaxBooksPerReader -> max-books-per-reader.
func FlagName(key string) string {
	return strings.ToLower(splitWords(key, '-'))
}

func splitWords(key string, separator rune) string {
	var b strings.Builder

	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(separator)
		}

		b.WriteRune(r)
	}

	return b.String()
}
