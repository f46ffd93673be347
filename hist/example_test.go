package hist_test

import (
	"fmt"

	"github.com/slwatkins/rqgo/hist"
)

func ExampleBinData() {
	vals := []float64{0.5, 1.5, 1.6, 3.2}

	res, err := hist.BinData(vals, hist.WithRange(0, 4), hist.WithBins(4))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Counts)
	fmt.Println(res.Centers)
	// Output:
	// [1 2 0 1]
	// [0.5 1.5 2.5 3.5]
}
