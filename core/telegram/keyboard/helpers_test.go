package keyboard

import "testing"

func TestForceReply(t *testing.T) {
	m := ForceReply()
	if !m.ForceReply || !m.Selective {
		t.Errorf("markup = %+v, want selective force-reply", m)
	}
}

func TestRemoveKeyboard(t *testing.T) {
	m := RemoveKeyboard()
	if !m.RemoveKeyboard {
		t.Errorf("markup = %+v, want remove-keyboard", m)
	}
	if m.ForceReply {
		t.Error("remove markup must not force a reply")
	}
}
