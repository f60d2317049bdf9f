package command

// ActivateProfile loads a profile and starts its processor.
type ActivateProfile struct {
	baseProfileCommand
	// TargetPID gates evaluation on a foreground process; 0 disables
	// the gate.
	TargetPID int
}

func NewActivateProfile(profileName string, targetPID int) *ActivateProfile {
	return &ActivateProfile{
		baseProfileCommand: baseProfileCommand{profileName: profileName},
		TargetPID:          targetPID,
	}
}

func (c *ActivateProfile) CommandName() string {
	return "ActivateProfile"
}

// DeactivateProfile stops a running processor.
type DeactivateProfile struct {
	baseProfileCommand
}

func NewDeactivateProfile(profileName string) *DeactivateProfile {
	return &DeactivateProfile{baseProfileCommand{profileName: profileName}}
}

func (c *DeactivateProfile) CommandName() string {
	return "DeactivateProfile"
}

// DeactivateAll stops every running processor.
type DeactivateAll struct{}

func (c *DeactivateAll) CommandName() string {
	return "DeactivateAll"
}
