package physics

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

const tol = 1e-9

func newBall(x, y, r, vx, vy float64) dynamo.Ball {
	return dynamo.NewBall(r2.Point{X: x, Y: y}, r, r2.Point{X: vx, Y: vy}, colorful.Color{})
}

func resolvePair(e *Elastic, a, b *dynamo.Ball) bool {
	balls := []dynamo.Ball{*a, *b}
	hit := e.Collide(&balls[0], &balls[1])
	Flush(balls)
	*a, *b = balls[0], balls[1]
	return hit
}

var _ = Describe("Elastic", func() {
	var e *Elastic

	BeforeEach(func() {
		e = NewElastic()
	})

	It("exchanges velocities of equal balls meeting head-on", func() {
		a := newBall(-5, 0, 6, 1, 0)
		b := newBall(5, 0, 6, -1, 0)

		Expect(resolvePair(e, &a, &b)).To(BeTrue())

		Expect(a.Velocity.X).To(BeNumerically("~", -1, tol))
		Expect(b.Velocity.X).To(BeNumerically("~", 1, tol))
		Expect(a.Velocity.Y).To(BeNumerically("~", 0, tol))
		Expect(b.Velocity.Y).To(BeNumerically("~", 0, tol))
	})

	It("only exchanges the normal component for equal masses", func() {
		a := newBall(0, 0, 1, 3, 2)
		b := newBall(1.5, 0, 1, -1, 5)

		resolvePair(e, &a, &b)

		Expect(a.Velocity.X).To(BeNumerically("~", -1, tol))
		Expect(a.Velocity.Y).To(BeNumerically("~", 2, tol))
		Expect(b.Velocity.X).To(BeNumerically("~", 3, tol))
		Expect(b.Velocity.Y).To(BeNumerically("~", 5, tol))
	})

	It("conserves momentum and kinetic energy with unequal masses", func() {
		a := newBall(0, 0, 2, 4, -1)
		b := newBall(3, 2, 3, -2, 0.5)

		p0 := a.Momentum().Add(b.Momentum())
		k0 := a.KineticEnergy() + b.KineticEnergy()

		Expect(resolvePair(e, &a, &b)).To(BeTrue())

		p1 := a.Momentum().Add(b.Momentum())
		k1 := a.KineticEnergy() + b.KineticEnergy()
		Expect(p1.X).To(BeNumerically("~", p0.X, 1e-9))
		Expect(p1.Y).To(BeNumerically("~", p0.Y, 1e-9))
		Expect(k1).To(BeNumerically("~", k0, 1e-9))
	})

	It("separates overlapping balls until they are tangent", func() {
		a := newBall(-5, 0, 6, 0, 0)
		b := newBall(5, 0, 6, 0, 0)

		resolvePair(e, &a, &b)

		Expect(a.Center.Sub(b.Center).Norm()).To(BeNumerically("~", 12, tol))
		Expect(a.Center.X).To(BeNumerically("~", -6, tol))
		Expect(b.Center.X).To(BeNumerically("~", 6, tol))
	})

	It("ignores balls that do not touch", func() {
		a := newBall(0, 0, 1, 1, 0)
		b := newBall(2.5, 0, 1, -1, 0)

		Expect(e.Collide(&a, &b)).To(BeFalse())
		Expect(a.Pending()).To(BeFalse())
		Expect(b.Pending()).To(BeFalse())
	})

	It("ignores coincident centres", func() {
		a := newBall(1, 1, 1, 1, 0)
		b := newBall(1, 1, 2, -1, 0)

		Expect(e.Collide(&a, &b)).To(BeFalse())
		Expect(a.Pending()).To(BeFalse())
		Expect(b.Pending()).To(BeFalse())
	})

	It("writes only to the accumulators", func() {
		a := newBall(-5, 0, 6, 1, 0)
		b := newBall(5, 0, 6, -1, 0)

		e.Collide(&a, &b)

		Expect(a.Center).To(Equal(r2.Point{X: -5}))
		Expect(a.Velocity).To(Equal(r2.Point{X: 1}))
		Expect(a.Pending()).To(BeTrue())
		Expect(b.Pending()).To(BeTrue())
	})

	It("rejects out of range parameters", func() {
		Expect(e.SetParam("correction", 0.33)).To(Succeed())
		Expect(e.GetParams()).To(HaveKeyWithValue("correction", 0.33))
		Expect(e.SetParam("correction", 2)).To(MatchError(dynamo.ErrParameterBounds))
		Expect(e.SetParam("restitution", 1)).To(HaveOccurred())
	})
})

var _ = Describe("Sweep", func() {
	It("is independent of visiting order for a ball hit from both sides", func() {
		balls := []dynamo.Ball{
			newBall(-1.9, 0, 1, 1, 0),
			newBall(0, 0, 1, 0, 0),
			newBall(1.9, 0, 1, -1, 0),
		}

		hits := Sweep(balls, NewElastic())
		Flush(balls)

		Expect(hits).To(Equal(2))
		for _, b := range balls {
			Expect(b.Velocity.Norm()).To(BeNumerically("~", 0, tol))
			Expect(b.Pending()).To(BeFalse())
		}
		Expect(balls[1].Center.X).To(BeNumerically("~", 0, tol))
	})

	It("visits every unordered pair exactly once", func() {
		counter := &countingResolver{}
		balls := make([]dynamo.Ball, 6)
		for i := range balls {
			balls[i].Radius = float64(i)
		}

		Sweep(balls, counter)

		Expect(counter.pairs).To(HaveLen(15))
		Expect(counter.pairs[0]).To(Equal([2]int{0, 1}))
		Expect(counter.pairs[14]).To(Equal([2]int{4, 5}))
		seen := map[[2]int]bool{}
		for _, p := range counter.pairs {
			Expect(seen[p]).To(BeFalse())
			seen[p] = true
		}
	})
})

var _ = Describe("Contain", func() {
	bound := geom.Circle{Center: r2.Point{X: 0, Y: 0}, Radius: 10}

	It("pushes an overlapping ball back until it is tangent", func() {
		b := newBall(6, 8, 1, 0, 0)

		Expect(Contain(&b, bound)).To(BeTrue())
		Expect(b.Center.Norm() + b.Radius).To(BeNumerically("~", 10, tol))
		Expect(math.Atan2(b.Center.Y, b.Center.X)).To(BeNumerically("~", math.Atan2(8, 6), tol))
	})

	It("leaves interior balls alone", func() {
		b := newBall(1, 1, 1, 3, 3)

		Expect(Contain(&b, bound)).To(BeFalse())
		Expect(b.Center).To(Equal(r2.Point{X: 1, Y: 1}))
	})

	It("skips a ball sitting exactly on the centre", func() {
		b := newBall(0, 0, 20, 0, 0)

		Expect(Contain(&b, bound)).To(BeFalse())
	})
})

// countingResolver records pairs by radius, which the test uses as an index.
type countingResolver struct {
	pairs [][2]int
}

func (c *countingResolver) Collide(a, b *dynamo.Ball) bool {
	c.pairs = append(c.pairs, [2]int{int(a.Radius), int(b.Radius)})
	return false
}
