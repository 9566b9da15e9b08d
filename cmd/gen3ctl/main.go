// Command gen3ctl identifies Generation 3 cartridge images and inspects,
// validates, dumps and transfers records between their save files.
package main

func main() {
	execute()
}
