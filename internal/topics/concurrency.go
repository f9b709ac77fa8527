package topics

import (
	"strconv"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// Atomic is a shared atomic cell.
type Atomic struct {
	Name  string
	Value int
}

// ActorScene shows a main thread, spawned workers and the channel between
// them, or a pair of atomics split by a memory barrier.
type ActorScene struct {
	Workers  int
	Channel  bool
	Sent     int
	Received int
	Atomics  []Atomic
	Barrier  bool
}

var (
	mainAt    = scene.V(-3.5, 0, 0)
	channelAt = scene.V(0, 0, 0)
)

func workerPos(i, n int) scene.Vec3 {
	return scene.V(3.5, float64(n-1)*0.75-float64(i)*1.5, 0)
}

func (a ActorScene) Draw(b *scene.Builder) {
	if len(a.Atomics) > 0 {
		a.drawAtomics(b)
		return
	}
	b.Sphere(mainAt, 0.6, scene.Base)
	b.Label(mainAt.Add(scene.V(0, 0.9, 0)), "main", 0.25, scene.Text)

	if a.Channel {
		b.Box(channelAt, scene.V(3, 0.6, 0.6), scene.Muted)
		b.Label(channelAt.Add(scene.V(0, 0.6, 0)), "channel", 0.22, scene.Text)
		b.Label(channelAt.Add(scene.V(-1.2, -0.6, 0)), "rx", 0.2, scene.Muted)
		b.Label(channelAt.Add(scene.V(1.2, -0.6, 0)), "tx", 0.2, scene.Muted)
	}
	for i := 0; i < a.Workers; i++ {
		p := workerPos(i, a.Workers)
		b.Sphere(p, 0.45, scene.Owner)
		b.Label(p.Add(scene.V(0, 0.7, 0)), "thread "+strconv.Itoa(i), 0.2, scene.Text)
		if a.Channel {
			c := scene.Muted
			if i < a.Sent {
				c = scene.Accent
			}
			b.Arrow(p.Sub(scene.V(0.5, 0, 0)), channelAt.Add(scene.V(1.5, 0, 0)), c)
		}
	}
	// Messages in flight sit in the channel; received ones have reached main.
	for i := a.Received; i < a.Sent; i++ {
		b.Sphere(channelAt.Add(scene.V(1-float64(i-a.Received)*0.7, 0, 0.4)), 0.2, scene.Accent)
	}
	if a.Received > 0 {
		b.Arrow(channelAt.Sub(scene.V(1.5, 0, 0)), mainAt.Add(scene.V(0.7, 0, 0)), scene.Success)
		b.Label(mainAt.Add(scene.V(0, -0.9, 0)), "received "+strconv.Itoa(a.Received), 0.2, scene.Success)
	}
}

func (a ActorScene) drawAtomics(b *scene.Builder) {
	for i, c := range a.Atomics {
		p := scene.V(-1.5+float64(i)*3, 0.5, 0)
		b.Box(p, scene.V(1.4, 1, 1), scene.Base)
		b.Label(p.Add(scene.V(0, 0, 0.6)), c.Name+" = "+strconv.Itoa(c.Value), 0.3, scene.Text)
	}
	if a.Barrier {
		b.Line(scene.V(-3, -0.8, 0), scene.V(3, -0.8, 0), scene.Danger)
		b.Label(scene.V(0, -1.2, 0), "SeqCst barrier", 0.22, scene.Danger)
	}
}

func (a ActorScene) Values() map[string]float64 {
	v := map[string]float64{
		"workers":  float64(a.Workers),
		"sent":     float64(a.Sent),
		"received": float64(a.Received),
		"channel":  boolf(a.Channel),
		"barrier":  boolf(a.Barrier),
	}
	for _, c := range a.Atomics {
		v[c.Name] = float64(c.Value)
	}
	return v
}

func ThreadChannels() Topic {
	s := &script.Script[ActorScene]{
		Title: "Threads and Channels",
		Code: []string{
			"use std::thread;",
			"use std::sync::mpsc;",
			"",
			"let (tx, rx) = mpsc::channel();",
			"thread::spawn(move || {",
			"    tx.send(42).unwrap();",
			"});",
			"let received = rx.recv().unwrap();",
			`println!("Got: {}", received);`,
		},
		Steps: []script.Step[ActorScene]{
			step("Let's see how threads and channels work in Rust.", 0, ActorScene{}),
			step("Create a channel (tx, rx).", 3, ActorScene{Channel: true}),
			step("Spawn a thread and send a value.", 5, ActorScene{Channel: true, Workers: 1, Sent: 1}),
			step("Main thread receives the value.", 7, ActorScene{Channel: true, Workers: 1, Sent: 1, Received: 1}),
		},
	}
	return New("thread_channels", "Threads/Channels", s)
}

func MessagePassing() Topic {
	s := &script.Script[ActorScene]{
		Title: "Message Passing",
		Code: []string{
			"use std::thread;",
			"use std::sync::mpsc;",
			"",
			"let (tx, rx) = mpsc::channel();",
			"for i in 0..3 {",
			"    let tx = tx.clone();",
			"    thread::spawn(move || {",
			"        tx.send(i).unwrap();",
			"    });",
			"}",
			"for _ in 0..3 {",
			"    let msg = rx.recv().unwrap();",
			`    println!("Got: {}", msg);`,
			"}",
		},
		Steps: []script.Step[ActorScene]{
			step("Let's see message passing with multiple threads.", 0, ActorScene{}),
			step("Create a channel and spawn 3 threads.", 4, ActorScene{Channel: true, Workers: 3}),
			step("Each thread sends a message.", 7, ActorScene{Channel: true, Workers: 3, Sent: 3}),
			step("Main thread receives all messages.", 11, ActorScene{Channel: true, Workers: 3, Sent: 3, Received: 3}),
		},
	}
	return New("message_passing", "Message Passing", s)
}

func MemoryBarriers() Topic {
	ab := func(a, b int, barrier bool) ActorScene {
		return ActorScene{Atomics: []Atomic{{"a", a}, {"b", b}}, Barrier: barrier}
	}
	s := &script.Script[ActorScene]{
		Title: "Memory Barriers",
		Code: []string{
			"use std::sync::atomic::{AtomicUsize, Ordering};",
			"",
			"let a = AtomicUsize::new(0);",
			"let b = AtomicUsize::new(0);",
			"",
			"a.store(1, Ordering::Relaxed);",
			"b.store(1, Ordering::Relaxed);",
			"",
			"// Memory barrier",
			"a.store(2, Ordering::SeqCst);",
			"",
			"let x = a.load(Ordering::SeqCst);",
			"let y = b.load(Ordering::SeqCst);",
		},
		Steps: []script.Step[ActorScene]{
			step("Let's see why memory barriers are needed.", 0, ab(0, 0, false)),
			step("Store values with relaxed ordering.", 5, ab(1, 1, false)),
			step("A memory barrier (SeqCst) enforces order.", 9, ab(2, 1, true)),
			step("Loads with SeqCst see the latest values.", 11, ab(2, 1, true)),
		},
	}
	return New("memory_barriers", "Memory Barriers", s)
}
