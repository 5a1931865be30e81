package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

// plan_command_test.go drives `cronloopd plan` end to end: a
// terraform-plan-style preview of what applying a registrations file
// would do to the persisted state document, without mutating it.
var _ = Describe("Plan Command", func() {
	var (
		tmpDir    string
		cfgPath   string
		statePath string
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		cfgPath = filepath.Join(tmpDir, "cronloop.yaml")
		statePath = filepath.Join(tmpDir, "cronloop.db")
	})

	Context("against an empty state store", func() {
		It("reports every registration as an addition", func() {
			Expect(os.WriteFile(cfgPath, []byte(`
registrations:
  - name: hourly-sync
    cron: "0 * * * *"
    handler: sync
    retryDelayMs: 30000
  - name: nightly-backup
    cron: "0 2 * * *"
    handler: backup
    retryDelayMs: 60000
`), 0o644)).To(Succeed())

			command := exec.Command(pathToCLI, "plan", "--config", cfgPath, "--state", statePath)
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say(`\+ hourly-sync`))
			Expect(session.Out).To(gbytes.Say(`\+ nightly-backup`))
			Expect(session.Out).To(gbytes.Say(`2 to add, 0 to remove, 0 to modify, 0 unchanged`))
		})
	})

	Context("when a registration's cron expression changed since the last run", func() {
		It("reports a modification and warns runtime will reset", func() {
			seedConfig := filepath.Join(tmpDir, "seed.yaml")
			Expect(os.WriteFile(seedConfig, []byte(`
registrations:
  - name: hourly-sync
    cron: "0 * * * *"
    handler: noop
    retryDelayMs: 30000
`), 0o644)).To(Succeed())

			// Run once against the seed config so the state store has a
			// persisted entry for hourly-sync to diff against.
			runCmd := exec.Command(pathToCLI, "run", "--config", seedConfig, "--state", statePath)
			runSession, err := gexec.Start(runCmd, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())
			Eventually(runSession).Should(gbytes.Say("cronloopd running"))
			Expect(runSession.Command.Process.Signal(os.Interrupt)).To(Succeed())
			Eventually(runSession).Should(gexec.Exit(0))

			Expect(os.WriteFile(cfgPath, []byte(`
registrations:
  - name: hourly-sync
    cron: "30 * * * *"
    handler: noop
    retryDelayMs: 30000
`), 0o644)).To(Succeed())

			command := exec.Command(pathToCLI, "plan", "--config", cfgPath, "--state", statePath)
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say(`~ hourly-sync`))
			Expect(session.Out).To(gbytes.Say(`0 to add, 0 to remove, 1 to modify, 0 unchanged`))
		})
	})
})
