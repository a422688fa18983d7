package stream_test

import (
	"context"
	"fmt"

	"github.com/kbukum/streamkit/stream"
)

func Example() {
	odd := stream.Arithmetic(0, 10, 1).Stream().
		Map(func(v int) int { return v * v }).
		Filter(func(v int) bool { return v%2 == 1 }).
		Collect()
	fmt.Println(odd)
	// Output: [1 9 25 49 81]
}

func ExampleFlatMapTo() {
	chars := stream.FlatMapTo(stream.Of("hello", "world"), func(s string) []rune { return []rune(s) })
	fmt.Println(string(chars.Collect()))
	// Output: helloworld
}

func ExampleStream_Iter() {
	it := stream.Step(1, func(int) bool { return true }, func(v int) int { return v * 2 }).Stream().Iter()
	defer it.Close()

	for i := 0; i < 5; i++ {
		v, _, _ := it.Next(context.Background())
		fmt.Print(v, " ")
	}
	fmt.Println()
	// Output: 1 2 4 8 16
}
