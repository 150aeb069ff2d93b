package predexp_test

import (
	"fmt"

	predexp "github.com/hugr-lab/predexp-go"
)

func ExampleList() {
	list := predexp.NewList(7)
	err := list.Append(
		predexp.IntegerBin("c"),
		predexp.IntegerValue(11),
		predexp.IntegerGreaterEq(),
		predexp.IntegerBin("c"),
		predexp.IntegerValue(20),
		predexp.IntegerLessEq(),
		predexp.And(2),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer list.Destroy()

	size := list.Size()
	buf := make([]byte, size.Bytes)
	end := list.Encode(buf, 0)

	fmt.Println(size.Nodes, size.Bytes, end)
	// Output: 7 64 64
}

func ExampleListIterateOr() {
	list := predexp.NewList(5)
	_ = list.Append(
		predexp.StringVar("v"),
		predexp.StringValue("blue"),
		predexp.StringEqual(),
		predexp.ListBin("colors"),
		predexp.ListIterateOr("v"),
	)
	fmt.Println(list)
	// Output: [string_var("v") string_value("blue") string_equal list_bin("colors") list_iterate_or("v")]
}
