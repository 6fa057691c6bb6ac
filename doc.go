/*
Package engineapi binds the interfaces of a running Source engine client to Go,
from inside the host process.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. Interface instances are obtained from the CreateInterface export of their module, by version string.
 2. Member functions are not read from vtables: each one is found by scanning its module image for a byte
    signature with wildcards, see package pattern. The first match wins.
 3. Resolved functions are called as x64 member functions, the instance is passed as the first argument,
    see package native.
 4. Everything is resolved once in [Initialize]. Any missing module, interface or signature fails the whole
    bootstrap and no [Engine] exists.

# Notes

 1. Only windows/amd64 can call into the host. Elsewhere interface lookup fails with native.ErrUnsupported,
    so [Initialize] never reports Ready; scanning and catalogue checks still work.
 2. Initialization runs at most once per process. Calls made meanwhile or afterwards never block and never retry.
 3. The compiled-in patterns are placeholders. Signatures are tied to one build of the host. When it updates,
    patch the catalogue with a yaml override (see [LoadCatalogFile] and [Catalog.Merge]) and check it with the
    sigscan tool before shipping.
 4. A stale signature may still match unrelated code. Nothing validates the match beyond its bytes.

# Sigscan tool

The sigscan tool checks the catalogue against module files on disk:

	go install github.com/ZenLiuCN/engineapi/sigscan@latest

For more details see the cli help:

	sigscan -h

# Samples

See tests.
*/
package engineapi
