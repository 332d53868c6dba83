package main

import "angopay/internal/app/server"

func main() {
	server.Run()
}
