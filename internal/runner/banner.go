package runner

import "github.com/projectdiscovery/gologger"

const version = `v0.0.1`

var banner = `
        _
  ___  (_)__  ___ __ __ __
 / _ \/ / _ \/ _ '/\ \ /
/ .__/_/_//_/\_, //_\_\
/_/         /___/         ` + version + `
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tprojectdiscovery.io\n\n")
}
