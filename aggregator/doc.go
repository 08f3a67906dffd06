// Package aggregator implementa a ferramenta de lote que consome listas
// públicas de endereços de botnet, consolida tudo em uma lista única e,
// opcionalmente, cria regras de bloqueio em um provedor de firewall.
//
// O fluxo de uma rodada: coletar (URLs e/ou arquivo local), extrair tokens
// com forma de IP, deduplicar preservando a primeira ocorrência, gravar a
// lista consolidada e o relatório por endereço, e empurrar as regras quando
// o push está habilitado. HTTP 409 ou corpo com "already exists" conta como
// duplicata, não como falha.
package aggregator
