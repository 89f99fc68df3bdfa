package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const launchdJobOutput = `{
	"LimitLoadToSessionType" = "System";
	"Label" = "com.openssh.sshd";
	"OnDemand" = true;
	"LastExitStatus" = 0;
	"PID" = 412;
	"ProgramArguments" = (
		"/usr/sbin/sshd";
		"-i";
	);
};
`

func TestParseLaunchdJob(t *testing.T) {
	job := parseLaunchdJob(launchdJobOutput)
	assert.Equal(t, "com.openssh.sshd", job.Label)
	assert.Equal(t, 412, job.PID)
	assert.Equal(t, "/usr/sbin/sshd", job.Program)
}

func TestParseLaunchdJobStopped(t *testing.T) {
	job := parseLaunchdJob("{\n\t\"Label\" = \"com.example\";\n\t\"Program\" = \"/usr/local/bin/example\";\n};\n")
	assert.Zero(t, job.PID)
	assert.Equal(t, "/usr/local/bin/example", job.Program)
}

func TestParseLaunchdList(t *testing.T) {
	out := "PID\tStatus\tLabel\n-\t0\tcom.b\n123\t0\tcom.a\nbroken\n"
	assert.Equal(t, []string{"com.a", "com.b"}, parseLaunchdList(out))
}
