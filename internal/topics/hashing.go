package topics

import (
	"strconv"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// Buckets is the bucket count of the hashing topics.
const Buckets = 8

// Entry is one key in a HashScene. Sets leave Value empty.
type Entry struct {
	Key   string
	Value string
}

// HashScene lays keys out over a row of buckets using scene.Bucket.
type HashScene struct {
	Entries   []Entry
	Highlight string
}

func bucketPos(i int) scene.Vec3 { return scene.V(-4+float64(i)*1.2, -2, 0) }

// Slots maps each entry to its bucket and its height within the bucket.
// Entries that land in the same bucket stack in insertion order.
func (h HashScene) Slots() (bucket, depth []int) {
	bucket = make([]int, len(h.Entries))
	depth = make([]int, len(h.Entries))
	fill := make([]int, Buckets)
	for i, e := range h.Entries {
		k := scene.Bucket(e.Key, Buckets)
		bucket[i], depth[i] = k, fill[k]
		fill[k]++
	}
	return bucket, depth
}

func (h HashScene) Draw(b *scene.Builder) {
	for i := 0; i < Buckets; i++ {
		p := bucketPos(i)
		b.Box(p, scene.V(1, 1, 1), scene.Muted)
		b.Label(p.Add(scene.V(0, -0.7, 0)), strconv.Itoa(i), 0.2, scene.Text)
	}
	bucket, depth := h.Slots()
	for i, e := range h.Entries {
		p := scene.V(-4+float64(bucket[i])*1.2, -0.5+float64(depth[i])*1.2, 0)
		c := scene.Base
		if e.Key == h.Highlight {
			c = scene.Active
		}
		b.Box(p, scene.V(1, 1, 1), c)
		text := e.Key
		if e.Value != "" {
			text += ": " + e.Value
		}
		b.Label(p.Add(scene.V(0, 0, 0.6)), text, 0.18, scene.Text)
	}
}

func (h HashScene) Values() map[string]float64 {
	v := map[string]float64{"entries": float64(len(h.Entries))}
	bucket, _ := h.Slots()
	for i, e := range h.Entries {
		v["bucket."+e.Key] = float64(bucket[i])
	}
	return v
}

func HashMaps() Topic {
	blue := Entry{"Blue", "10"}
	yellow := Entry{"Yellow", "50"}
	m := func(hl string, es ...Entry) HashScene { return HashScene{Entries: es, Highlight: hl} }
	s := &script.Script[HashScene]{
		Title: "HashMaps",
		Code: []string{
			"// A HashMap stores key-value pairs.",
			"use std::collections::HashMap;",
			"let mut scores = HashMap::new();",
			"",
			"// `insert` adds a key-value pair.",
			`scores.insert(String::from("Blue"), 10);`,
			`scores.insert(String::from("Yellow"), 50);`,
			"",
			"// Access values by key.",
			`let team_name = String::from("Blue");`,
			"let score = scores.get(&team_name); // Some(&10)",
		},
		Steps: []script.Step[HashScene]{
			step("Let's explore HashMaps. They store data as key-value pairs.", 0, m("")),
			step("We create a new, empty HashMap.", 2, m("")),
			step("We `insert` the key 'Blue' with the value 10. The key is hashed to find a bucket.", 5, m("Blue", blue)),
			step("Now we insert 'Yellow' with value 50. It gets hashed to a different bucket.", 6, m("Yellow", blue, yellow)),
			step("We can `get` a value by providing its key.", 10, m("Blue", blue, yellow)),
		},
	}
	return New("hash_maps", "HashMaps", s)
}

func HashSets() Topic {
	const (
		tale = "A Tale of Two Cities"
		lotr = "The Lord of the Rings"
	)
	set := func(hl string, keys ...string) HashScene {
		es := make([]Entry, len(keys))
		for i, k := range keys {
			es[i] = Entry{Key: k}
		}
		return HashScene{Entries: es, Highlight: hl}
	}
	s := &script.Script[HashScene]{
		Title: "HashSets",
		Code: []string{
			"// A HashSet is a set of unique values.",
			"use std::collections::HashSet;",
			"let mut books = HashSet::new();",
			"",
			"// `insert` adds a value. Duplicates are ignored.",
			`books.insert("A Tale of Two Cities");`,
			`books.insert("The Lord of the Rings");`,
			`books.insert("A Tale of Two Cities"); // This is ignored.`,
			"",
			"// `contains` checks for a value.",
			`let has_lotr = books.contains("The Lord of the Rings"); // true`,
		},
		Steps: []script.Step[HashScene]{
			step("Now for HashSets. They're like HashMaps, but only store unique keys.", 0, set("")),
			step("We create a new, empty HashSet.", 2, set("")),
			step("We `insert` a value. It gets hashed to find a bucket.", 5, set(tale, tale)),
			step("We insert another unique value.", 6, set(lotr, tale, lotr)),
			step("Inserting a duplicate value has no effect.", 7, set(tale, tale, lotr)),
			step("We can check for existence with `contains`.", 10, set(lotr, tale, lotr)),
		},
	}
	return New("hash_sets", "HashSets", s)
}
