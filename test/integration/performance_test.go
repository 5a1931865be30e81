package integration_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gexec"
)

// writeRegistrations generates a registrations YAML file with n tasks,
// each on a distinct cron expression so forecast/timeline have
// something non-trivial to project.
func writeRegistrations(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("registrations:\n"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		minute := i % 60
		_, err := fmt.Fprintf(f, "  - name: task-%d\n    cron: \"%d * * * *\"\n    handler: noop\n    retryDelayMs: 1000\n", i, minute)
		if err != nil {
			return err
		}
	}
	return nil
}

var _ = Describe("Performance Tests", func() {
	Context("when processing a large registrations file", func() {
		It("should validate 100 tasks in under 1 second", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "large.yaml")
			Expect(writeRegistrations(tmpFile, 100)).To(Succeed())

			start := time.Now()
			command := exec.Command(pathToCLI, "plan", "--config", tmpFile, "--state", filepath.Join(GinkgoT().TempDir(), "state.db"))
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			duration := time.Since(start)

			Expect(duration).To(BeNumerically("<", 1*time.Second),
				"planning 100 tasks should take less than 1 second, took %v", duration)
		})

		It("should forecast 500 tasks in under 5 seconds", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "huge.yaml")
			Expect(writeRegistrations(tmpFile, 500)).To(Succeed())

			start := time.Now()
			command := exec.Command(pathToCLI, "forecast", "--config", tmpFile, "--window", "24h")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			duration := time.Since(start)

			Expect(duration).To(BeNumerically("<", 5*time.Second),
				"forecasting 500 tasks should take less than 5 seconds, took %v", duration)
		})
	})

	Context("when rendering a timeline for many tasks", func() {
		It("should generate a timeline for 100 tasks in reasonable time", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "large.yaml")
			Expect(writeRegistrations(tmpFile, 100)).To(Succeed())

			start := time.Now()
			command := exec.Command(pathToCLI, "timeline", "--config", tmpFile, "--json")
			session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			Eventually(session).Should(gexec.Exit(0))
			duration := time.Since(start)

			Expect(duration).To(BeNumerically("<", 3*time.Second),
				"generating a timeline for 100 tasks should take less than 3 seconds, took %v", duration)
		})
	})
})
