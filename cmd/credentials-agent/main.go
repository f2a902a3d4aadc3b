// Copyright 2017 uSwitch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	rootParser := kingpin.CommandLine

	runParser := rootParser.Command("run", "keep container credentials refreshed")
	runCmd := &runCommand{}
	runCmd.Bind(runParser)

	checkParser := rootParser.Command("check", "fetch container credentials once")
	checkCmd := &checkCommand{}
	checkCmd.Bind(checkParser)

	healthParser := rootParser.Command("health", "check the health of a running agent")
	healthCmd := &healthCommand{}
	healthCmd.Bind(healthParser)

	switch kingpin.Parse() {
	case "run":
		runCmd.Run()
	case "check":
		checkCmd.Run()
	case "health":
		healthCmd.Run()
	}
}
