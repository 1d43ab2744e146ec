// The tracebrowser command explores line-delimited JSON execution traces.
package main

func main() {
	Execute()
}
