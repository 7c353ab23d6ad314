/*
RTL433 decodes OOK/FSK sub-GHz wireless sensor transmissions from
demodulated bitbuffer codes.

Each code is one bitbuffer in {len}hex form, one {len}hex group per row:

	rtl433 '{40}69d9b0c8bd'
	rtl433 -format=kv -codefile=codes.txt
	echo '{36}8f90d5f2c0' | rtl433 -codefile=-

Command-line Flags:

	-codefile=""

File with one bitbuffer code per line, "-" for stdin. Blank lines and lines
starting with "#" are skipped. Codes given as arguments take precedence.

	-device=""

Runs only devices whose name contains one of a comma-separated list of
substrings. All registered devices run by default.

	-format="json"

Sets the record output format. One of json, kv or csv. JSON and KV write
one record per line. CSV writes a header with the union of the field sets
of the selected devices.

	-verbose=false

Enables decoder debug logging: classified decode failures (sanity,
integrity) are logged per device.

	-version=false

Displays build date and commit hash.
*/
package main
