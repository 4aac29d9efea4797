package hunt

import "context"

// CleanupOutput contains the result of the VoiceCleanup operation.
type CleanupOutput struct {
	Removed int `json:"removed"`
}

// VoiceCleanup deletes every empty voice channel outside the protected
// prefixes. It backs both the manual command and the periodic sweep.
func (o *Orchestrator) VoiceCleanup(ctx context.Context) (*CleanupOutput, error) {
	removed, err := o.voice.SweepIdle(ctx, o.opts.ProtectedVoicePrefixes)
	if err != nil {
		return nil, err
	}
	return &CleanupOutput{Removed: removed}, nil
}
