package topics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stepviz/internal/playback"
	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/topics"
)

func lookup(key string) topics.Topic {
	GinkgoHelper()
	t, err := topics.Default().Lookup(key)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("Registry", func() {
	It("registers every built-in topic once", func() {
		r := topics.Default()
		Expect(r.Len()).To(Equal(27))
		seen := map[string]bool{}
		for _, k := range r.Keys() {
			Expect(seen).NotTo(HaveKey(k))
			seen[k] = true
		}
	})

	It("rejects unknown keys without panicking", func() {
		_, err := topics.Default().Lookup("no_such_topic")
		Expect(errors.Is(err, topics.ErrUnknownTopic)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(`"no_such_topic"`))
	})

	It("rejects duplicate keys", func() {
		r := topics.NewRegistry()
		Expect(r.Register("loop", topics.Loop)).To(Succeed())
		err := r.Register("loop", topics.Loop)
		Expect(errors.Is(err, topics.ErrDuplicateKey)).To(BeTrue())
	})

	It("lets Replace override a key", func() {
		r := topics.Default()
		r.Replace("loop", topics.Stacks)
		t, err := r.Lookup("loop")
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Key()).To(Equal("stacks"))
		Expect(r.Len()).To(Equal(27))
	})
})

var _ = Describe("Built-in topics", func() {
	for _, t := range topics.Default().All() {
		t := t
		Context(t.Key(), func() {
			It("has a valid script", func() {
				Expect(topics.Validate(t)).To(Succeed())
				Expect(t.Len()).To(BeNumerically(">", 0))
				Expect(t.Code()).NotTo(BeEmpty())
			})

			It("renders each step the same way twice", func() {
				for i := 0; i < t.Len(); i++ {
					a, b := t.Frame(i), t.Frame(i)
					Expect(a.Text).To(Equal(b.Text))
					Expect(a.Cursor).To(Equal(b.Cursor))
					Expect(a.Scene.Prims).To(Equal(b.Scene.Prims))
					Expect(a.Values).To(Equal(b.Values))
				}
			})

			It("clamps out-of-range frames", func() {
				Expect(t.Frame(-5).Index).To(Equal(0))
				Expect(t.Frame(t.Len() + 3).Index).To(Equal(t.Len() - 1))
			})

			It("returns to step 0 on reset", func() {
				c, err := playback.New(t.Len())
				Expect(err).NotTo(HaveOccurred())
				for c.Next() {
				}
				Expect(c.AtEnd()).To(BeTrue())
				c.Reset()
				Expect(t.Frame(c.Position()).Text).To(Equal(t.Frame(0).Text))
			})
		})
	}
})

var _ = Describe("Loop", func() {
	It("breaks once count reaches 3", func() {
		t := lookup("loop")
		c, err := playback.New(t.Len())
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Frame(c.Position()).Values).To(HaveKeyWithValue("count", 0.0))
		for i := 0; i < 7; i++ {
			c.Next()
		}
		f := t.Frame(c.Position())
		Expect(f.Index).To(Equal(7))
		Expect(f.Text).To(Equal("count == 3, break the loop."))
		Expect(f.Values).To(HaveKeyWithValue("count", 3.0))
		Expect(f.Values).To(HaveKeyWithValue("loop", 0.0))
		Expect(f.Scene.Count(scene.Arrow)).To(BeZero())
	})
})

var _ = Describe("Stacks", func() {
	It("pushes three values then pops the top", func() {
		t := lookup("stacks")
		Expect(t.Frame(0).Values).To(HaveKeyWithValue("len", 0.0))

		f := t.Frame(4)
		Expect(f.Values).To(HaveKeyWithValue("len", 3.0))
		Expect(f.Values).To(HaveKeyWithValue("top", 3.0))
		Expect(f.Values).NotTo(HaveKey("pop"))
		Expect(f.Scene.Labels()).To(ContainElements("1", "2", "3"))

		f = t.Frame(5)
		Expect(f.Values).To(HaveKeyWithValue("len", 2.0))
		Expect(f.Values).To(HaveKeyWithValue("top", 2.0))
		Expect(f.Values).To(HaveKeyWithValue("pop", 3.0))
		Expect(f.Scene.Labels()).To(ContainElement("popped"))
	})
})

var _ = Describe("HashMaps", func() {
	It("buckets keys by character-code sum", func() {
		f := lookup("hash_maps").Frame(3)
		Expect(f.Values).To(HaveKeyWithValue("bucket.Blue", 0.0))
		Expect(f.Values).To(HaveKeyWithValue("bucket.Yellow", 4.0))
		Expect(scene.Bucket("Blue", topics.Buckets)).To(Equal(scene.Bucket("Blue", topics.Buckets)))
	})

	It("stacks colliding keys in insertion order", func() {
		h := topics.HashScene{Entries: []topics.Entry{{Key: "ab"}, {Key: "ba"}}}
		bucket, depth := h.Slots()
		Expect(bucket[0]).To(Equal(bucket[1]))
		Expect(depth).To(Equal([]int{0, 1}))
	})
})

var _ = Describe("BinaryHeaps", func() {
	It("keeps the max-heap property at every step", func() {
		t := lookup("binary_heaps")
		for i := 0; i < t.Len(); i++ {
			Expect(t.Frame(i).Values["size"]).To(BeNumerically(">=", 0))
		}
		Expect(topics.HeapScene{Items: []int{5, 4, 2, 1}}.IsMaxHeap()).To(BeTrue())
		Expect(topics.HeapScene{Items: []int{1, 4}}.IsMaxHeap()).To(BeFalse())
	})

	It("pops the root", func() {
		f := lookup("binary_heaps").Frame(6)
		Expect(f.Values).To(HaveKeyWithValue("pop", 5.0))
		Expect(f.Values).To(HaveKeyWithValue("root", 4.0))
	})
})

var _ = Describe("Series", func() {
	It("leaves NaN where a step has no value", func() {
		names, series := topics.Series(lookup("hash_maps"))
		Expect(names).To(ContainElement("bucket.Yellow"))
		yellow := series["bucket.Yellow"]
		Expect(math.IsNaN(yellow[0])).To(BeTrue())
		Expect(yellow[len(yellow)-1]).To(Equal(4.0))
	})

	It("only reports the loop value while the iterator is on the array", func() {
		t := lookup("for_loop")
		_, series := topics.Series(t)
		Expect(math.IsNaN(series["val"][0])).To(BeTrue())
		Expect(series["val"]).To(ContainElement(10.0))
	})
})

var _ = Describe("SeqScene", func() {
	It("skips the span pointer when the span starts before the items", func() {
		sc := scene.New()
		s := topics.SeqScene{Items: []int{1, 2, 3}, Highlight: -1, SpanStart: -1, SpanEnd: 2}
		Expect(func() { s.Draw(sc.Builder()) }).NotTo(Panic())
		Expect(sc.Count(scene.Arrow)).To(Equal(0))
	})
})

var _ = Describe("CyclicNotation", func() {
	It("wraps at the edge of the range", func() {
		Expect(topics.I8.Wrap(127 + 1)).To(Equal(-128))
		Expect(topics.U8.Wrap(255 + 1)).To(Equal(0))
		Expect(topics.I8.Wrap(-128 - 1)).To(Equal(127))
		Expect(topics.U8.Slot(0)).To(Equal(0))
		Expect(topics.I8.Slot(-128)).To(Equal(0))
		Expect(topics.I8.Slot(127)).To(Equal(255))
	})

	It("shows the wrapped value after each add", func() {
		t := lookup("cyclic_notation")
		Expect(t.Frame(2).Values).To(HaveKeyWithValue("pointer", -128.0))
		Expect(t.Frame(2).Values).To(HaveKeyWithValue("overflow", 1.0))
		Expect(t.Frame(6).Values).To(HaveKeyWithValue("pointer", 0.0))
		Expect(t.Frame(6).Scene.Labels()).To(ContainElement("overflow"))
		Expect(t.Frame(6).Scene.Count(scene.Line)).To(Equal(256))
	})
})

var _ = Describe("DataTypes", func() {
	It("fades between steps", func() {
		Expect(lookup("data_types").Fades()).To(BeTrue())
	})

	It("sizes integer cells by bit width", func() {
		Expect(topics.CellSize("i8")).To(BeNumerically("<", topics.CellSize("i32")))
		Expect(topics.CellSize("i32")).To(BeNumerically("<", topics.CellSize("i64")))
		Expect(topics.CellSize("u16")).To(Equal(0.8))
		Expect(topics.CellSize("usize")).To(Equal(1.0))
	})

	It("prints the element read from the array", func() {
		t := lookup("data_types")
		f := t.Frame(12)
		Expect(f.Values).To(HaveKeyWithValue("highlight", 2.0))
		Expect(f.Scene.Labels()).To(ContainElement("> Third element is: 3"))
		Expect(f.Scene.Labels()).To(ContainElement("Array<i32, 5>"))
		Expect(t.Frame(0).Values).NotTo(HaveKey("highlight"))
	})
})

var _ = Describe("Memory topics", func() {
	It("derives addresses from the seed", func() {
		Expect(topics.Address("x", 0)).To(Equal(topics.Address("x", 0)))
		Expect(topics.Address("x", 0)).NotTo(Equal(topics.Address("x", 7)))
		Expect(topics.Address("x", 0)).To(MatchRegexp(`^0x[0-9a-f]{5}$`))
	})

	It("fades only where asked", func() {
		Expect(lookup("constants").Fades()).To(BeTrue())
		Expect(lookup("loop").Fades()).To(BeFalse())
	})

	It("keeps the highlighted line on steps without one", func() {
		t := lookup("variables")
		for i := 0; i < t.Len(); i++ {
			Expect(t.Frame(i).Cursor.HasLine()).To(BeTrue(), "step %d", i)
		}
	})
})
