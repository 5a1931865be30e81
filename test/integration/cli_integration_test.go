package integration_test

import (
	"os/exec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var _ = Describe("CLI Integration Tests", func() {
	Describe("Version Command", func() {
		Context("when running 'cronloopd version'", func() {
			It("should display version information", func() {
				command := exec.Command(pathToCLI, "version")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(0))
				Expect(session.Out).To(gbytes.Say("cronloopd"))
			})
		})

		Context("when running 'cronloopd --version'", func() {
			It("should display version information", func() {
				command := exec.Command(pathToCLI, "--version")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(0))
				Expect(session.Out).To(gbytes.Say("cronloopd"))
			})
		})
	})

	Describe("Explain Command", func() {
		Context("when running 'cronloopd explain' with a valid expression", func() {
			It("should describe the schedule in English", func() {
				command := exec.Command(pathToCLI, "explain", "0 9 * * 1-5")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(0))
				Expect(session.Out).To(gbytes.Say("9"))
			})
		})

		Context("when running 'cronloopd explain' with an invalid expression", func() {
			It("should exit non-zero and report the error", func() {
				command := exec.Command(pathToCLI, "explain", "60 * * * *")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(1))
				Expect(session.Err).To(gbytes.Say("invalid cron expression"))
			})
		})
	})

	Describe("Next Command", func() {
		Context("when running 'cronloopd next' with a count", func() {
			It("should print that many upcoming fire times", func() {
				command := exec.Command(pathToCLI, "next", "0 * * * *", "-c", "3")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(0))
				Expect(session.Out).To(gbytes.Say(`Next 3 runs`))
			})
		})
	})

	Describe("Help Command", func() {
		Context("when running 'cronloopd --help'", func() {
			It("should list every subcommand", func() {
				command := exec.Command(pathToCLI, "--help")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(0))
				Expect(session.Out).To(gbytes.Say("Available Commands"))
				Expect(session.Out).To(gbytes.Say("run"))
				Expect(session.Out).To(gbytes.Say("plan"))
				Expect(session.Out).To(gbytes.Say("status"))
				Expect(session.Out).To(gbytes.Say("explain"))
			})
		})

		Context("when running 'cronloopd help version'", func() {
			It("should display help for the version command", func() {
				command := exec.Command(pathToCLI, "help", "version")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(0))
				Expect(session.Out).To(gbytes.Say("version"))
			})
		})
	})

	Describe("Invalid Command", func() {
		Context("when running an unknown command", func() {
			It("should return an error", func() {
				command := exec.Command(pathToCLI, "nonexistent")
				session, err := gexec.Start(command, GinkgoWriter, GinkgoWriter)
				Expect(err).NotTo(HaveOccurred())

				Eventually(session).Should(gexec.Exit(1))
				Expect(session.Err).To(gbytes.Say("unknown command"))
			})
		})
	})
})
