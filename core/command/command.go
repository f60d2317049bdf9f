// Package command defines all commands that can be sent to the application.
// Commands represent user intentions and are processed by the application layer.
package command

// Command is the base interface for all commands.
type Command interface {
	// CommandName returns the name of the command for logging/debugging
	CommandName() string
}

// ProfileCommand is a command that targets a specific profile.
type ProfileCommand interface {
	Command
	// ProfileName returns the target profile name
	ProfileName() string
}

// baseProfileCommand provides common implementation for profile commands.
type baseProfileCommand struct {
	profileName string
}

func (c *baseProfileCommand) ProfileName() string {
	return c.profileName
}
