package plant_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/motorlab/motorlab/internal/plant"
)

var _ = Describe("DCMotor", func() {
	var motor *plant.DCMotor

	BeforeEach(func() {
		motor = plant.NewDCMotor()
	})

	It("starts at standstill", func() {
		Expect(motor.Measure()).To(BeZero())
	})

	It("settles at gain times drive under constant input", func() {
		// ~15 time constants is far past settling
		steps := int(15 * motor.TimeConstant / 0.01)
		for i := 0; i < steps; i++ {
			motor.Apply(0.5, 0.01)
		}
		Expect(motor.Speed()).To(BeNumerically("~", 0.5*motor.Gain, 1e-3))
	})

	It("rises monotonically toward a step input", func() {
		prev := motor.Speed()
		for i := 0; i < 100; i++ {
			motor.Apply(1.0, 0.01)
			Expect(motor.Speed()).To(BeNumerically(">", prev))
			prev = motor.Speed()
		}
	})

	It("returns to standstill on reset", func() {
		motor.Apply(1.0, 0.1)
		Expect(motor.Speed()).NotTo(BeZero())
		motor.Reset()
		Expect(motor.Speed()).To(BeZero())
	})

	It("produces reproducible noise for the same seed", func() {
		other := plant.NewDCMotor()
		motor.SetNoise(0.5, 42)
		other.SetNoise(0.5, 42)
		for i := 0; i < 10; i++ {
			Expect(motor.Measure()).To(Equal(other.Measure()))
		}
	})

	It("leaves the true speed unaffected by measurement noise", func() {
		motor.SetNoise(1.0, 1)
		for i := 0; i < 50; i++ {
			motor.Apply(0.2, 0.01)
		}
		clean := plant.NewDCMotor()
		for i := 0; i < 50; i++ {
			clean.Apply(0.2, 0.01)
		}
		Expect(motor.Speed()).To(Equal(clean.Speed()))
	})
})

var _ = Describe("Heater", func() {
	var heater *plant.Heater

	BeforeEach(func() {
		heater = plant.NewHeater()
	})

	It("starts at ambient temperature", func() {
		Expect(heater.Measure()).To(Equal(heater.Ambient))
	})

	It("heats up under power", func() {
		for i := 0; i < 100; i++ {
			heater.Apply(1.0, 0.1)
		}
		Expect(heater.Temperature()).To(BeNumerically(">", heater.Ambient))
	})

	It("dissipates toward ambient without power", func() {
		for i := 0; i < 100; i++ {
			heater.Apply(1.0, 0.1)
		}
		hot := heater.Temperature()
		for i := 0; i < 100; i++ {
			heater.Apply(0, 0.1)
		}
		Expect(heater.Temperature()).To(BeNumerically("<", hot))
		Expect(heater.Temperature()).To(BeNumerically(">=", heater.Ambient))
	})

	It("ignores negative drive", func() {
		cooled := plant.NewHeater()
		for i := 0; i < 10; i++ {
			heater.Apply(-1.0, 0.1)
			cooled.Apply(0, 0.1)
		}
		Expect(heater.Temperature()).To(Equal(cooled.Temperature()))
	})

	It("returns to ambient on reset", func() {
		heater.Apply(1.0, 1.0)
		heater.Reset()
		Expect(heater.Temperature()).To(Equal(heater.Ambient))
	})
})
