/*
 * config.go, part of quantic.
 *
 *
 * Copyright 2024 The quantic Authors
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
 */

//Package config locates the reference data and the device settings used by
//the quantic command. Values come, in decreasing order of priority, from
//QUANTIC_* environment variables, a quantic.yaml file and the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	chem "github.com/amphiquantic/quantic"
)

//The configuration keys.
const (
	KeyDataPath        = "data_path"
	KeyBondDistances   = "bond_distances"
	KeyAtomProperties  = "atom_properties"
	KeyShaders         = "shaders"
	KeyCpus            = "cpus"
	KeyPowerPreference = "power_preference"
)

//Power preferences for the GPU adapter.
const (
	HighPerformance = "high-performance"
	LowPower        = "low-power"
)

//LegacyDataEnv is the older environment variable for the data directory.
//It is honoured when QUANTIC_DATA_PATH is not set.
const LegacyDataEnv = "PDBVIZ_DATA_PATH"

//Config holds the resolved settings.
type Config struct {
	DataPath        string
	BondDistances   string
	AtomProperties  string
	Shaders         string //empty means the embedded kernels
	Cpus            int
	PowerPreference string
	File            string //the config file used, if any
}

//New returns a viper instance set up with the quantic defaults, config
//search paths and environment bindings. If file is not empty, it is used
//as the config file instead of searching for quantic.yaml.
func New(file string) *viper.Viper {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("quantic")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "quantic"))
		}
	}
	v.SetDefault(KeyDataPath, "data")
	v.SetDefault(KeyBondDistances, "")
	v.SetDefault(KeyAtomProperties, "")
	v.SetDefault(KeyShaders, "")
	v.SetDefault(KeyCpus, runtime.NumCPU())
	v.SetDefault(KeyPowerPreference, HighPerformance)

	v.SetEnvPrefix("QUANTIC")
	v.AutomaticEnv()
	_ = v.BindEnv(KeyDataPath, "QUANTIC_DATA_PATH", LegacyDataEnv)
	return v
}

//Load reads the configuration from v. A missing config file is not an
//error when the file was searched for, only when it was given explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "can't read config file", "config.Load")
		}
	}
	C := &Config{
		DataPath:        v.GetString(KeyDataPath),
		BondDistances:   v.GetString(KeyBondDistances),
		AtomProperties:  v.GetString(KeyAtomProperties),
		Shaders:         v.GetString(KeyShaders),
		Cpus:            v.GetInt(KeyCpus),
		PowerPreference: strings.ToLower(v.GetString(KeyPowerPreference)),
		File:            v.ConfigFileUsed(),
	}
	if C.BondDistances == "" {
		C.BondDistances = filepath.Join(C.DataPath, "bond_distances.yml")
	}
	if C.AtomProperties == "" {
		C.AtomProperties = filepath.Join(C.DataPath, "atom_properties.yml")
	}
	if C.Cpus < 1 {
		C.Cpus = 1
	}
	if C.PowerPreference != HighPerformance && C.PowerPreference != LowPower {
		return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("unknown power preference %q, use %s or %s", C.PowerPreference, HighPerformance, LowPower), "config.Load")
	}
	return C, nil
}

//LowPower returns true if a low power adapter was requested.
func (C *Config) LowPower() bool {
	return C.PowerPreference == LowPower
}

//Settings returns the resolved settings as key/value pairs, in a fixed order.
func (C *Config) Settings() [][2]string {
	return [][2]string{
		{KeyDataPath, C.DataPath},
		{KeyBondDistances, C.BondDistances},
		{KeyAtomProperties, C.AtomProperties},
		{KeyShaders, C.Shaders},
		{KeyCpus, fmt.Sprint(C.Cpus)},
		{KeyPowerPreference, C.PowerPreference},
	}
}
