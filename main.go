package main

import "github.com/railwayapp/includecase/cmd/includecase"

func main() {
	includecase.Execute()
}
