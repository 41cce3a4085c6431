package frame_test

import (
	"fmt"

	"github.com/cwbudde/algo-xsynth/dsp/frame"
)

func ExampleSplit() {
	frames, _ := frame.Split([]float64{1, 2, 3, 4, 5, 6, 7}, 4, 2)
	fmt.Println(len(frames), frames[0], frames[1])
	// Output:
	// 2 [1 2 3 4] [3 4 5 6]
}

func ExampleOverlapAdd() {
	out, _ := frame.OverlapAdd([][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}}, 2)
	fmt.Println(out)
	// Output:
	// [1 1 2 2 1 1]
}
