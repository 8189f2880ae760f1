// Package wizard provides an interactive questionnaire for dsinstall.
//
// It uses charmbracelet/huh forms to collect the settings of a new
// directory server instance. RunWizard returns a WizardResult, BuildConfig
// turns it into an InstanceConfig, and WriteConfig renders the YAML file
// consumed by "dsinstall create".
package wizard
